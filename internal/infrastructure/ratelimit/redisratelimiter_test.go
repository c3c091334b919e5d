package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/shared/biztime"
)

func setupLimiter(t *testing.T) (*RedisRateLimiter, *biztime.ManualClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := biztime.NewManualClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	return NewRedisRateLimiter(client, "", clock), clock
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	limiter, _ := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := limiter.Allow(ctx, "ip:1.2.3.4", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 4-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "ip:1.2.3.4", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed, "6th request should be denied")
	assert.Equal(t, time.Minute, res.RetryAfter)

	res, err = limiter.Allow(ctx, "ip:5.6.7.8", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "other keys are independent")
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	limiter, clock := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, res.Allowed)
		clock.Advance(10 * time.Second)
	}

	res, err := limiter.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 30*time.Second, res.RetryAfter)

	clock.Advance(31 * time.Second)
	res, err = limiter.Allow(ctx, "k", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisRateLimiter_Reset(t *testing.T) {
	limiter, _ := setupLimiter(t)
	ctx := context.Background()

	res, err := limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, res.Allowed)

	require.NoError(t, limiter.Reset(ctx, "k"))
	res, err = limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisRateLimiter_ZeroLimitDisables(t *testing.T) {
	limiter, _ := setupLimiter(t)
	res, err := limiter.Allow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
