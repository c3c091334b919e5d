package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/infrastructure/database/dbtest"
	"github.com/videocc/videocc/internal/shared/db"
)

type countingRepo struct {
	member.Repository
	calls   atomic.Int32
	txCalls atomic.Int32
	members map[uint]*member.Member
	release chan struct{}
}

func (r *countingRepo) GetByID(ctx context.Context, id uint) (*member.Member, error) {
	r.calls.Add(1)
	if db.InTransaction(ctx) {
		r.txCalls.Add(1)
	}
	if r.release != nil {
		<-r.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.members[id], nil
}

func (r *countingRepo) Update(_ context.Context, m *member.Member) error {
	r.members[m.ID()] = m
	return nil
}

func newMember(id uint) *member.Member {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return member.ReconstructMember(id, "m", member.GenderMale, false, nil, false, now, now)
}

func TestCachedMemberRepositoryServesFromCache(t *testing.T) {
	inner := &countingRepo{members: map[uint]*member.Member{1: newMember(1)}}
	repo := NewCachedMemberRepository(inner, 10, time.Minute)
	ctx := context.Background()

	first, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load())
	assert.NotSame(t, first, second, "callers get their own copy")

	first.GrantVIP(7, time.Now())
	third, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, third.IsVIP(), "mutating a copy must not leak into the cache")
}

func TestCachedMemberRepositoryUpdateEvicts(t *testing.T) {
	inner := &countingRepo{members: map[uint]*member.Member{1: newMember(1)}}
	repo := NewCachedMemberRepository(inner, 10, time.Minute)
	ctx := context.Background()

	m, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	m.GrantVIP(7, time.Now())
	require.NoError(t, repo.Update(ctx, m))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.IsVIP())
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedMemberRepositoryCollapsesConcurrentMisses(t *testing.T) {
	inner := &countingRepo{
		members: map[uint]*member.Member{1: newMember(1)},
		release: make(chan struct{}),
	}
	repo := NewCachedMemberRepository(inner, 10, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.GetByID(ctx, 1)
			assert.NoError(t, err)
		}()
	}
	// let the first loader block long enough for the others to join it
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCachedMemberRepositoryBypassedInsideTransaction(t *testing.T) {
	inner := &countingRepo{members: map[uint]*member.Member{1: newMember(1)}}
	repo := NewCachedMemberRepository(inner, 10, time.Minute)
	tm := db.NewTransactionManager(dbtest.Open(t))

	err := tm.RunInTransaction(context.Background(), func(txCtx context.Context) error {
		for i := 0; i < 2; i++ {
			if _, err := repo.GetByID(txCtx, 1); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), inner.txCalls.Load(), "transactional reads go through the transaction")
	assert.Zero(t, repo.Len(), "transactional reads do not fill the cache")

	_, err = repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.txCalls.Load())
	assert.Equal(t, 1, repo.Len())
}

func TestCachedMemberRepositoryCancelledCallerDoesNotFailOthers(t *testing.T) {
	inner := &countingRepo{
		members: map[uint]*member.Member{1: newMember(1)},
		release: make(chan struct{}),
	}
	repo := NewCachedMemberRepository(inner, 10, time.Minute)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := repo.GetByID(first, 1)
		firstErr <- err
	}()
	// the first caller owns the shared load
	time.Sleep(50 * time.Millisecond)

	secondErr := make(chan error, 1)
	go func() {
		_, err := repo.GetByID(context.Background(), 1)
		secondErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(inner.release)
	assert.NoError(t, <-secondErr)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, 1, repo.Len())
}
