package member

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	Update(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uint) (*Member, error)
	GetByUsername(ctx context.Context, username string) (*Member, error)
	// IsBlocked is true when either member has blocked the other.
	IsBlocked(ctx context.Context, a, b uint) (bool, error)
	// IsMutualFavorite is true when both members favorited each other.
	IsMutualFavorite(ctx context.Context, a, b uint) (bool, error)
	AddFavorite(ctx context.Context, memberID, favoriteID uint) error
	Block(ctx context.Context, blockerID, blockedID uint) error
	// ExpireVIPs clears VIP flags whose expiry passed before now and
	// returns how many members changed.
	ExpireVIPs(ctx context.Context, now time.Time) (int64, error)
}
