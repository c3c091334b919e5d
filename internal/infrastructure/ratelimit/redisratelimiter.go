package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/videocc/videocc/internal/shared/biztime"
)

const DefaultKeyPrefix = "videocc:ratelimit:"

type RedisRateLimiter struct {
	client redis.UniversalClient
	prefix string
	clock  biztime.Clock
}

func NewRedisRateLimiter(client redis.UniversalClient, prefix string, clock biztime.Clock) *RedisRateLimiter {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRateLimiter{client: client, prefix: prefix, clock: clock}
}

// Scores are unix microseconds, exact in a float64.
//
// Allow counts the request only when it is admitted, so a client hammering a
// closed window does not keep extending it.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= 0 {
		return Result{Allowed: true}, nil
	}

	redisKey := l.prefix + key
	now := l.clock.Now()
	windowStart := now.Add(-window).UnixMicro()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(windowStart, 10))
	zcard := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcard.Val())
	if count >= limit {
		res := Result{Allowed: false}
		if z := oldest.Val(); len(z) > 0 {
			res.RetryAfter = max(0, time.UnixMicro(int64(z[0].Score)).Add(window).Sub(now))
		}
		return res, nil
	}

	pipe = l.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMicro()), Member: uuid.NewString()})
	pipe.Expire(ctx, redisKey, window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to record request: %w", err)
	}

	return Result{Allowed: true, Remaining: limit - count - 1}, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
