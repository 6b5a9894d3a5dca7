package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests in fixed windows shared by every instance
// pointing at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "svgshare"
	}
	if window <= 0 {
		window = time.Second
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) windowKey(key string) string {
	slot := l.now().UnixNano() / int64(l.window)
	return fmt.Sprintf("%s:rl:%s:%d", l.prefix, key, slot)
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	windowKey := l.windowKey(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}

	return incr.Val() <= l.limit, nil
}
