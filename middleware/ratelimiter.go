package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// staleAfter is how long an idle client's bucket survives before a later
// request prunes it. Keeps the per-IP map from growing without bound.
const staleAfter = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter hands out one token bucket per client IP and prunes buckets
// for clients that have gone quiet.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	rate      rate.Limit
	burst     int
	lastPrune time.Time
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &ipLimiter{
		clients:   make(map[string]*clientBucket),
		rate:      rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     burst,
		lastPrune: time.Now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastPrune) > staleAfter {
		for addr, b := range l.clients {
			if now.Sub(b.lastSeen) > staleAfter {
				delete(l.clients, addr)
			}
		}
		l.lastPrune = now
	}

	b, ok := l.clients[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = b
	}
	b.lastSeen = now
	return b.limiter.Allow()
}

// RateLimit allows perMinute requests per client IP with the given burst.
// Used on the credential endpoints, where slowing an attacker down matters
// more than throughput.
func RateLimit(perMinute, burst int) gin.HandlerFunc {
	l := newIPLimiter(perMinute, burst)

	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}
