package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits per key inside a fixed window that starts with
// the first hit.
type WindowCounter struct {
	client *redis.Client
	prefix string
}

func NewWindowCounter(client *redis.Client, prefix string) *WindowCounter {
	return &WindowCounter{client: client, prefix: prefix}
}

// Hit increments key and returns the new count together with the time left
// in the window.
func (w *WindowCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := w.prefix + key
	count, err := w.client.Incr(ctx, k).Result()
	if err != nil {
		return 0, 0, err
	}

	ttl, err := w.client.TTL(ctx, k).Result()
	if err != nil {
		return 0, 0, err
	}
	// A key without expiry starts its window now. This also covers a failed
	// Expire on an earlier first hit.
	if ttl < 0 {
		if err := w.client.Expire(ctx, k, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}
	return count, ttl, nil
}
