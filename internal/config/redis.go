package config

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis using REDIS_ADDR (default
// localhost:6379), REDIS_PASSWORD and REDIS_DB. Redis backs the rate
// limiter and the catalog cache only, so a failed ping returns nil and
// callers run with both disabled rather than refusing to start.
func NewRedisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     strOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       intOr("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
