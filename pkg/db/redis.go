package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"shopauth/pkg/config"
)

// OpenRedis connects to REDIS_URL (redis:// or rediss://) and pings it once.
func OpenRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	url := strings.TrimSpace(cfg.RedisURL)
	if url == "" {
		return nil, fmt.Errorf("redis: REDIS_URL is not set")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
