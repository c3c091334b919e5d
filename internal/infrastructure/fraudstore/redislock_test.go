package fraudstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/domain/fraud"
)

func newRedisLock(t *testing.T, ttl, wait time.Duration) (*RedisAdmissionLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisAdmissionLock(client, "", ttl, wait), mr
}

func TestRedisAdmissionLockTimesOutWhileHeld(t *testing.T) {
	lock, _ := newRedisLock(t, time.Minute, 100*time.Millisecond)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, purchaseAt(1, walletA, "10.0.0.1", 10, time.Time{}))
	require.NoError(t, err)

	// different member and IP, same wallet
	_, err = lock.Acquire(ctx, purchaseAt(2, walletA, "10.0.0.2", 10, time.Time{}))
	assert.ErrorIs(t, err, fraud.ErrAdmissionBusy)

	release()
	releaseAgain, err := lock.Acquire(ctx, purchaseAt(2, walletA, "10.0.0.2", 10, time.Time{}))
	require.NoError(t, err)
	releaseAgain()
}

func TestRedisAdmissionLockDisjointAttemptsDoNotWait(t *testing.T) {
	lock, _ := newRedisLock(t, time.Minute, 50*time.Millisecond)
	ctx := context.Background()

	releaseA, err := lock.Acquire(ctx, purchaseAt(1, walletA, "10.0.0.1", 10, time.Time{}))
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := lock.Acquire(ctx, purchaseAt(2, walletB, "10.0.0.2", 10, time.Time{}))
	require.NoError(t, err)
	releaseB()
}

func TestRedisAdmissionLockFailedAcquireFreesPartialKeys(t *testing.T) {
	lock, mr := newRedisLock(t, time.Minute, 50*time.Millisecond)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, purchaseAt(1, walletA, "10.0.0.9", 10, time.Time{}))
	require.NoError(t, err)
	defer release()

	// ip and member keys sort before the held wallet key and are taken first
	_, err = lock.Acquire(ctx, purchaseAt(2, walletA, "10.0.0.8", 10, time.Time{}))
	require.ErrorIs(t, err, fraud.ErrAdmissionBusy)
	assert.False(t, mr.Exists(DefaultKeyPrefix+"lock:ip:10.0.0.8"))
	assert.False(t, mr.Exists(DefaultKeyPrefix+"lock:member:2"))
	assert.True(t, mr.Exists(DefaultKeyPrefix+"lock:wallet:"+walletA))
}

func TestRedisAdmissionLockStaleReleaseKeepsNewOwner(t *testing.T) {
	lock, mr := newRedisLock(t, 5*time.Second, 50*time.Millisecond)
	ctx := context.Background()
	p := purchaseAt(1, walletA, "10.0.0.1", 10, time.Time{})

	stale, err := lock.Acquire(ctx, p)
	require.NoError(t, err)

	mr.FastForward(6 * time.Second)
	current, err := lock.Acquire(ctx, p)
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists(DefaultKeyPrefix+"lock:member:1"))

	_, err = lock.Acquire(ctx, p)
	assert.ErrorIs(t, err, fraud.ErrAdmissionBusy)

	current()
	assert.False(t, mr.Exists(DefaultKeyPrefix+"lock:member:1"))
}

func TestRedisAdmissionLockHonoursCallerCancel(t *testing.T) {
	lock, _ := newRedisLock(t, time.Minute, time.Minute)
	p := purchaseAt(1, walletA, "10.0.0.1", 10, time.Time{})

	release, err := lock.Acquire(context.Background(), p)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = lock.Acquire(ctx, p)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, fraud.ErrAdmissionBusy)
}
