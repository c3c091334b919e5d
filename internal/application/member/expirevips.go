// Package member holds the member maintenance use cases.
package member

import (
	"context"

	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/logger"
)

// ExpireVIPsUseCase clears VIP flags whose expiry has passed. Reads already
// treat such members as non-VIP; the sweep keeps the stored flag honest.
type ExpireVIPsUseCase struct {
	members member.Repository
	clock   biztime.Clock
	logger  logger.Interface
}

func NewExpireVIPsUseCase(members member.Repository, clock biztime.Clock, logger logger.Interface) *ExpireVIPsUseCase {
	return &ExpireVIPsUseCase{members: members, clock: clock, logger: logger}
}

func (uc *ExpireVIPsUseCase) Execute(ctx context.Context) (int, error) {
	n, err := uc.members.ExpireVIPs(ctx, uc.clock.Now())
	if err != nil {
		uc.logger.Errorw("failed to expire VIP memberships", "error", err)
		return 0, err
	}
	return int(n), nil
}
