package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLimitedRouter(perMinute, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(perMinute, burst), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func hit(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	t.Run("BurstExceededRejected", func(t *testing.T) {
		r := newLimitedRouter(1, 2)

		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
	})

	t.Run("ClientsLimitedIndependently", func(t *testing.T) {
		r := newLimitedRouter(1, 1)

		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2"))
	})
}
