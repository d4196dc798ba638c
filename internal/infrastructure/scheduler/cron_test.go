package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate("0 6 * * *"))
	assert.NoError(t, Validate("@hourly"))
	assert.Error(t, Validate("every morning"))
	assert.Error(t, Validate("0 0 6 * * *"))
}

func TestCronSchedulerRunsJob(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("@every 1s", nil, nil)

	var runs atomic.Int32
	require.NoError(t, sched.Start(context.Background(), func(time.Time) { runs.Add(1) }))
	assert.False(t, sched.Next().IsZero())

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(ctx))
	assert.True(t, sched.Next().IsZero())

	// stopping twice is a no-op
	require.NoError(t, sched.Stop(ctx))
}

func TestCronSchedulerRejectsBadSpec(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("not a cron", time.UTC, nil)
	assert.Error(t, sched.Start(context.Background(), func(time.Time) {}))
	assert.NoError(t, sched.Start(context.Background(), nil))
}

func TestCronSchedulerStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*60*60)
	sched := NewCronScheduler("0 6 * * *", loc, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, sched.Start(ctx, func(time.Time) {}))
	next := sched.Next()
	require.False(t, next.IsZero())
	assert.Equal(t, 6, next.In(loc).Hour())

	cancel()
	assert.Eventually(t, func() bool { return sched.Next().IsZero() }, time.Second, 10*time.Millisecond)
}
