package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/leasedesk/leasedesk/internal/ports"
)

// Config configures the redis-backed rate limiter
type Config struct {
	Enabled  bool
	RedisURL string
}

// New creates a rate limiter. When disabled, a noop limiter that always
// allows is returned.
func New(config Config) (ports.RateLimiter, error) {
	if !config.Enabled {
		return &noopLimiter{}, nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisLimiter{client: client}, nil
}

type redisLimiter struct {
	client *redis.Client
}

// Allow increments the attempt counter for key and reports whether the
// attempt is within limit for the window. The expiry is refreshed on every
// attempt, so the window slides: continuous attempts keep the counter alive
// until they stop for a full window.
func (l *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment attempt counter: %w", err)
	}
	return incr.Val() <= int64(limit), nil
}

func (l *redisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset attempt counter: %w", err)
	}
	return nil
}

type noopLimiter struct{}

func (l *noopLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (l *noopLimiter) Reset(ctx context.Context, key string) error {
	return nil
}
