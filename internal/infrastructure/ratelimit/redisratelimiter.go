package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "customerly:ratelimit:"

// RedisRateLimiter keeps a sorted set of request timestamps per key and
// counts the ones inside the window. Rejected requests are counted too,
// so a client hammering the API stays locked out.
type RedisRateLimiter struct {
	client *redis.Client
	cfg    Config
}

func NewRedisRateLimiter(client *redis.Client, cfg Config) *RedisRateLimiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &RedisRateLimiter{client: client, cfg: cfg}
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	redisKey := l.getKey(key)
	windowStart := now.Add(-l.cfg.Window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, l.cfg.Window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	count := int(zcard.Val())
	remaining := l.cfg.Limit - count - 1
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count < l.cfg.Limit,
		Limit:     l.cfg.Limit,
		Remaining: remaining,
		ResetAt:   now.Add(l.cfg.Window),
	}, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.getKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit for %s: %w", key, err)
	}
	return nil
}

func (l *RedisRateLimiter) getKey(identifier string) string {
	return keyPrefix + identifier
}
