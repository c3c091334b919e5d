package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videocc/videocc/internal/shared/logger"
)

func TestSchedulerManager_RegisterAndRun(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	var pruned, expired atomic.Int32
	prune := BatchJobFunc(func(ctx context.Context) (int, error) {
		pruned.Add(1)
		return 3, nil
	})
	expire := BatchJobFunc(func(ctx context.Context) (int, error) {
		expired.Add(1)
		return 0, errors.New("database is gone")
	})

	// Yearly so nothing fires on its own during the test.
	require.NoError(t, m.RegisterGuardJobs("0 0 1 1 *", prune, "0 0 1 1 *", expire))
	require.Len(t, m.Jobs(), 2)

	m.Start()
	m.Start()
	assert.True(t, m.IsStarted())
	t.Cleanup(func() { _ = m.Stop() })

	for _, job := range m.Jobs() {
		require.NoError(t, job.RunNow())
	}

	assert.Eventually(t, func() bool {
		return pruned.Load() == 1 && expired.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
	require.NoError(t, m.Stop())
}

func TestSchedulerManager_InvalidCron(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger())
	require.NoError(t, err)

	noop := BatchJobFunc(func(context.Context) (int, error) { return 0, nil })
	assert.Error(t, m.RegisterGuardJobs("not a cron", noop, "* * * * *", noop))
}
