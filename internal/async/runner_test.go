package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32

	runner := NewRunner(func(ctx context.Context) error {
		runs.Add(1)
		<-release
		return nil
	})

	require.True(t, runner.Submit(context.Background()))

	require.Eventually(t, runner.IsRunning, time.Second, 5*time.Millisecond)

	// a second submit while the first run is in flight is refused
	assert.False(t, runner.Submit(context.Background()))

	close(release)

	require.Eventually(t, func() bool { return !runner.IsRunning() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	assert.True(t, runner.Submit(context.Background()))
	require.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestRunner_SnapshotRecordsOutcome(t *testing.T) {
	runner := NewRunner(func(ctx context.Context) error {
		return errors.New("failed to fetch file: HTTP 500")
	})

	assert.Equal(t, Snapshot{}, runner.Snapshot())

	require.True(t, runner.Submit(context.Background()))

	require.Eventually(t, func() bool { return !runner.IsRunning() }, time.Second, 5*time.Millisecond)

	snapshot := runner.Snapshot()
	assert.False(t, snapshot.Running)
	assert.NotEmpty(t, snapshot.StartedAt)
	assert.NotEmpty(t, snapshot.FinishedAt)
	assert.Equal(t, "failed to fetch file: HTTP 500", snapshot.LastError)
}

func TestRunner_LastErrorClearsOnNextRun(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	runner := NewRunner(func(ctx context.Context) error {
		if fail.Load() {
			return errors.New("transient")
		}
		return nil
	})

	require.True(t, runner.Submit(context.Background()))
	require.Eventually(t, func() bool { return !runner.IsRunning() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "transient", runner.Snapshot().LastError)

	fail.Store(false)

	require.True(t, runner.Submit(context.Background()))
	require.Eventually(t, func() bool { return !runner.IsRunning() }, time.Second, 5*time.Millisecond)
	assert.Empty(t, runner.Snapshot().LastError)
}

func TestRunner_SurvivesCallerCancellation(t *testing.T) {
	sawCancel := make(chan bool, 1)

	runner := NewRunner(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			sawCancel <- true
		case <-time.After(50 * time.Millisecond):
			sawCancel <- false
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, runner.Submit(ctx))
	cancel()

	assert.False(t, <-sawCancel)
}
