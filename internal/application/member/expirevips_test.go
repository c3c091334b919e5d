package member

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/domain/member"
	"github.com/videocc/videocc/internal/infrastructure/database/dbtest"
	"github.com/videocc/videocc/internal/infrastructure/repository"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/logger"
)

func TestExpireVIPsUseCase(t *testing.T) {
	ctx := context.Background()
	clock := biztime.NewManualClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	repo := repository.NewMemberRepository(dbtest.Open(t), logger.NewNopLogger())

	short, err := member.NewMember("short", member.GenderMale, clock.Now())
	require.NoError(t, err)
	short.GrantVIP(1, clock.Now())
	require.NoError(t, repo.Create(ctx, short))

	long, err := member.NewMember("long", member.GenderMale, clock.Now())
	require.NoError(t, err)
	long.GrantVIP(30, clock.Now())
	require.NoError(t, repo.Create(ctx, long))

	uc := NewExpireVIPsUseCase(repo, clock, logger.NewNopLogger())

	n, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	clock.Advance(48 * time.Hour)
	n, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetByID(ctx, short.ID())
	require.NoError(t, err)
	assert.False(t, got.IsVIP())

	got, err = repo.GetByID(ctx, long.ID())
	require.NoError(t, err)
	assert.True(t, got.IsVIP())
}
