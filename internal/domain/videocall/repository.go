package videocall

import "context"

type Repository interface {
	Create(ctx context.Context, s *Session) error
	Update(ctx context.Context, s *Session) error
	// GetByID returns ErrSessionNotFound when no session has id.
	GetByID(ctx context.Context, id uint) (*Session, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*Session, error)
	// ListByCaller returns the sessions started by caller, newest first.
	ListByCaller(ctx context.Context, callerID uint) ([]*Session, error)
}
