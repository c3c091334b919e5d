package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/shared/db"
)

const (
	DefaultMemberCacheSize = 10000
	DefaultMemberCacheTTL  = 30 * time.Second
)

var _ member.Repository = (*CachedMemberRepository)(nil)

// CachedMemberRepository fronts member lookups on the hot messaging and
// call paths. Writes go straight through and evict the cached entry.
type CachedMemberRepository struct {
	member.Repository
	cache *expirable.LRU[uint, *member.Member]
	group singleflight.Group
}

func NewCachedMemberRepository(inner member.Repository, size int, ttl time.Duration) *CachedMemberRepository {
	if size <= 0 {
		size = DefaultMemberCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultMemberCacheTTL
	}
	return &CachedMemberRepository{
		Repository: inner,
		cache:      expirable.NewLRU[uint, *member.Member](size, nil, ttl),
	}
}

// GetByID serves from the cache outside transactions. Inside a transaction
// it reads through the transaction and leaves the cache alone, so other
// requests never see or share uncommitted rows.
//
// Concurrent misses share one load. The load runs detached from the first
// caller's cancellation; each caller still stops waiting when its own ctx ends.
func (r *CachedMemberRepository) GetByID(ctx context.Context, id uint) (*member.Member, error) {
	if db.InTransaction(ctx) {
		return r.Repository.GetByID(ctx, id)
	}
	if m, ok := r.cache.Get(id); ok {
		return clone(m), nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		if m, ok := r.cache.Get(id); ok {
			return m, nil
		}
		m, err := r.Repository.GetByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		r.cache.Add(id, clone(m))
		return m, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.(*member.Member)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *CachedMemberRepository) Update(ctx context.Context, m *member.Member) error {
	r.cache.Remove(m.ID())
	if err := r.Repository.Update(ctx, m); err != nil {
		return err
	}
	r.cache.Remove(m.ID())
	return nil
}

func (r *CachedMemberRepository) ExpireVIPs(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.Repository.ExpireVIPs(ctx, now)
	if n > 0 {
		r.cache.Purge()
	}
	return n, err
}

// Invalidate drops one member, e.g. after an out-of-band admin edit.
func (r *CachedMemberRepository) Invalidate(id uint) {
	r.cache.Remove(id)
}

func (r *CachedMemberRepository) Len() int {
	return r.cache.Len()
}

func clone(m *member.Member) *member.Member {
	var expires *time.Time
	if m.VIPExpiresAt() != nil {
		t := *m.VIPExpiresAt()
		expires = &t
	}
	return member.ReconstructMember(m.ID(), m.Username(), m.Gender(), m.IsVIP(), expires,
		m.IsAdmin(), m.CreatedAt(), m.UpdatedAt())
}
