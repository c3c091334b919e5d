package quota

import "context"

type DailyCounterRepository interface {
	// Get returns the counter of member on day, or an empty unsaved counter
	// when none exists yet.
	Get(ctx context.Context, memberID uint, day string) (*DailyCounter, error)
	// GetForUpdate is Get with the row locked until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, memberID uint, day string) (*DailyCounter, error)
	// Save inserts or updates the counter keyed by (member, day).
	Save(ctx context.Context, c *DailyCounter) error
}
