package db

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()

// Redis is optional: when REDIS_URL is unset the trend cache falls back to the
// Postgres-backed store.
var Redis *redis.Client

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	return Redis.Ping(Ctx).Err()
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}
