package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter answers whether a caller identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type fixedWindowLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewFixedWindowLimiter allows at most max requests per key per window.
// Counters live in Redis so every api-server replica sees the same state.
func NewFixedWindowLimiter(client *redis.Client, max int, window time.Duration) RateLimiter {
	return &fixedWindowLimiter{
		client: client,
		max:    int64(max),
		window: window,
	}
}

func (l *fixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	counterKey := "ratelimit:" + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, counterKey)
	// NX keeps the window anchored at the first request
	pipe.ExpireNX(ctx, counterKey, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}

	return incr.Val() <= l.max, nil
}
