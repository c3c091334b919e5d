package fraud

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/domain/fraud"
	"github.com/videocc/videocc/internal/domain/purchase"
	"github.com/videocc/videocc/internal/infrastructure/fraudstore"
	"github.com/videocc/videocc/internal/shared/biztime"
	apperrors "github.com/videocc/videocc/internal/shared/errors"
	"github.com/videocc/videocc/internal/shared/logger"
)

var start = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func wallet(n int) string {
	return fmt.Sprintf("T%033d", n)
}

func attempt(memberID uint, w string, amount int64) fraud.Purchase {
	return fraud.Purchase{
		MemberID:      memberID,
		WalletAddress: w,
		AmountUSD:     decimal.NewFromInt(amount),
		ClientIP:      fmt.Sprintf("10.0.0.%d", memberID),
		Type:          fraud.PurchaseTypeCoins,
	}
}

func noop(context.Context, fraud.Purchase) error { return nil }

func newTracker() (*Tracker, *biztime.ManualClock) {
	clock := biztime.NewManualClock(start)
	return NewTracker(fraudstore.NewMemoryStore(), fraud.DefaultPolicy(), DefaultAnalyticsThresholds(),
		clock, logger.NewNopLogger()), clock
}

func TestAdmitRateLimitsFourthPurchaseInAnHour(t *testing.T) {
	tracker, clock := newTracker()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := tracker.Admit(ctx, attempt(1, wallet(1), 10), noop)
		require.NoError(t, err)
		require.True(t, d.Valid, "purchase %d", i+1)
		clock.Advance(10 * time.Minute)
	}

	d, err := tracker.Admit(ctx, attempt(1, wallet(1), 10), noop)
	require.NoError(t, err)
	assert.False(t, d.Valid)
	assert.Equal(t, fraud.ReasonRateLimit, d.Code)

	clock.Advance(time.Hour)
	d, err = tracker.Admit(ctx, attempt(1, wallet(1), 10), noop)
	require.NoError(t, err)
	assert.True(t, d.Valid, "the window slides")
}

func TestAdmitThirdWalletUserRejected(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()
	shared := wallet(7)

	for id := uint(1); id <= 2; id++ {
		d, err := tracker.Admit(ctx, attempt(id, shared, 10), noop)
		require.NoError(t, err)
		require.True(t, d.Valid)
	}

	d, err := tracker.Admit(ctx, attempt(3, shared, 10), noop)
	require.NoError(t, err)
	assert.Equal(t, fraud.ReasonWalletReuse, d.Code)

	d, err = tracker.Admit(ctx, attempt(1, shared, 10), noop)
	require.NoError(t, err)
	assert.True(t, d.Valid, "an existing user of the wallet is not counted against itself")
}

func TestAdmitCommitFailureLeavesNoHistory(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	_, err := tracker.Admit(ctx, attempt(1, wallet(1), 10), func(context.Context, fraud.Purchase) error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	a, err := tracker.Analytics(ctx)
	require.NoError(t, err)
	assert.Zero(t, a.TotalPurchases)
}

func TestAdmitRejectionSkipsCommit(t *testing.T) {
	tracker, _ := newTracker()
	called := false
	d, err := tracker.Admit(context.Background(), attempt(1, "not-a-wallet", 10), func(context.Context, fraud.Purchase) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, fraud.ReasonWalletFormat, d.Code)
	assert.False(t, called)
}

func TestAdmitSerializesConcurrentAttempts(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := tracker.Admit(ctx, attempt(1, wallet(1), 5), noop)
			if assert.NoError(t, err) && d.Valid {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), admitted.Load())
}

func TestValidatePurchaseHasNoSideEffects(t *testing.T) {
	tracker, _ := newTracker()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d, err := tracker.ValidatePurchase(ctx, attempt(1, wallet(1), 10))
		require.NoError(t, err)
		assert.True(t, d.Valid)
	}

	require.NoError(t, tracker.RecordPurchase(ctx, attempt(1, wallet(1), 95)))
	d, err := tracker.ValidatePurchase(ctx, attempt(1, wallet(1), 10))
	require.NoError(t, err)
	assert.Equal(t, fraud.ReasonDailySpend, d.Code)
}

type listRepo struct {
	purchase.Repository
	requests []*purchase.Request
	since    time.Time
}

func (r *listRepo) ListSince(_ context.Context, since time.Time) ([]*purchase.Request, error) {
	r.since = since
	return r.requests, nil
}

func TestWarmReplaysPersistedPurchases(t *testing.T) {
	tracker, clock := newTracker()
	ctx := context.Background()

	var reqs []*purchase.Request
	for i := 0; i < 3; i++ {
		p := attempt(1, wallet(1), 10)
		p.At = clock.Now().Add(-time.Duration(i+1) * time.Minute)
		req, err := purchase.NewRequest(fmt.Sprintf("pr_%d", i), p, "coins", 100, 0)
		require.NoError(t, err)
		reqs = append(reqs, req)
	}
	repo := &listRepo{requests: reqs}

	n, err := tracker.Warm(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, clock.Now().Add(-30*24*time.Hour), repo.since)

	d, err := tracker.ValidatePurchase(ctx, attempt(1, wallet(1), 10))
	require.NoError(t, err)
	assert.Equal(t, fraud.ReasonRateLimit, d.Code, "restart must not reset the rate limit")
}

func TestPruneAndAnalytics(t *testing.T) {
	tracker, clock := newTracker()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tracker.Admit(ctx, attempt(1, wallet(1), 10), noop)
		require.NoError(t, err)
	}
	a, err := tracker.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, a.TotalPurchases)
	assert.Equal(t, 1, a.RateLimitedMembers)

	clock.Advance(31 * 24 * time.Hour)
	removed, err := tracker.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	a, err = tracker.Analytics(ctx)
	require.NoError(t, err)
	assert.Zero(t, a.TotalPurchases)
}

func TestAdmitIsExclusiveAcrossTrackersSharingRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := biztime.NewManualClock(start)
	replica := func() *Tracker {
		return NewTracker(fraudstore.NewRedisStore(client, ""), fraud.DefaultPolicy(), DefaultAnalyticsThresholds(),
			clock, logger.NewNopLogger(),
			WithAdmissionLock(fraudstore.NewRedisAdmissionLock(client, "", time.Minute, 5*time.Second)))
	}
	a, b := replica(), replica()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := a.Admit(ctx, attempt(1, wallet(1), 10), noop)
		require.NoError(t, err)
		require.True(t, d.Valid)
		clock.Advance(time.Minute)
	}

	var committed atomic.Int32
	other := make(chan fraud.Decision, 1)
	d, err := a.Admit(ctx, attempt(1, wallet(1), 10), func(context.Context, fraud.Purchase) error {
		go func() {
			d, err := b.Admit(context.Background(), attempt(1, wallet(1), 10), func(context.Context, fraud.Purchase) error {
				committed.Add(1)
				return nil
			})
			assert.NoError(t, err)
			other <- d
		}()
		// b must still be waiting when this commit returns
		time.Sleep(100 * time.Millisecond)
		committed.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, d.Valid)

	select {
	case d := <-other:
		assert.False(t, d.Valid)
		assert.Equal(t, fraud.ReasonRateLimit, d.Code)
	case <-time.After(5 * time.Second):
		t.Fatal("second tracker never finished")
	}
	assert.EqualValues(t, 1, committed.Load())

	snap, err := fraudstore.NewRedisStore(client, "").Snapshot(ctx, attempt(1, wallet(1), 10), start.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, snap.MemberPurchases, 3)
}

func TestAdmitReportsBusyWhenSharedLockIsHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	lock := fraudstore.NewRedisAdmissionLock(client, "", time.Minute, 50*time.Millisecond)
	tracker := NewTracker(fraudstore.NewRedisStore(client, ""), fraud.DefaultPolicy(), DefaultAnalyticsThresholds(),
		biztime.NewManualClock(start), logger.NewNopLogger(), WithAdmissionLock(lock))

	p := attempt(1, wallet(1), 10)
	release, err := lock.Acquire(context.Background(), p.Normalize())
	require.NoError(t, err)
	defer release()

	_, err = tracker.Admit(context.Background(), p, noop)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeTooManyRequests, appErr.Type)
}
