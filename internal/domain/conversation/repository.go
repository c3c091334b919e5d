package conversation

import "context"

type Repository interface {
	// Get returns nil and no error when the direction has no record yet.
	Get(ctx context.Context, senderID, receiverID uint) (*Permission, error)
	// Save inserts or updates the record keyed by (sender, receiver).
	Save(ctx context.Context, p *Permission) error
}
