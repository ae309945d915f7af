package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewRedisClient initializes a Redis client from a URL. The cache is
// best-effort: a failed ping is logged but the client is still returned so
// catalog reads can fall through to Mongo.
func NewRedisClient(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		zap.L().Warn("Invalid REDIS_URL, falling back to default", zap.Error(err))
		opts = &redis.Options{Addr: "localhost:6379"}
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		zap.L().Warn("Failed to ping Redis, catalog caching degraded", zap.Error(err))
	} else {
		zap.L().Info("Connected to Redis")
	}
	return client
}
