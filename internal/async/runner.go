// Package async provides the fire-and-forget runner behind the ingestion
// trigger.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type RunFunc func(ctx context.Context) error

// Snapshot is an immutable view of the runner's state.
type Snapshot struct {
	Running    bool   `json:"running"`
	StartedAt  string `json:"started_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

// Runner executes at most one run at a time in a background goroutine.
// Submit returns immediately; progress is observed through Snapshot and
// whatever state the run itself persists.
type Runner struct {
	run RunFunc

	mtx        sync.Mutex
	running    bool
	startedAt  time.Time
	finishedAt time.Time
	lastError  string
}

// Submit schedules a run and reports whether it was started. A run already
// in flight is left alone and Submit reports false.
func (r *Runner) Submit(ctx context.Context) bool {
	r.mtx.Lock()
	if r.running {
		r.mtx.Unlock()
		return false
	}
	r.running = true
	r.startedAt = time.Now().UTC()
	r.lastError = ""
	r.mtx.Unlock()

	// the run must outlive the request that triggered it
	ctx = context.WithoutCancel(ctx)

	go func() {
		err := r.run(ctx)

		r.mtx.Lock()
		r.running = false
		r.finishedAt = time.Now().UTC()
		if err != nil {
			r.lastError = err.Error()
		}
		r.mtx.Unlock()

		if err != nil {
			slog.ErrorContext(ctx, "background run failed", "error", err)
		}
	}()

	return true
}

func (r *Runner) IsRunning() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.running
}

func (r *Runner) Snapshot() Snapshot {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	snapshot := Snapshot{
		Running:   r.running,
		LastError: r.lastError,
	}

	if !r.startedAt.IsZero() {
		snapshot.StartedAt = r.startedAt.Format(time.RFC3339Nano)
	}
	if !r.finishedAt.IsZero() {
		snapshot.FinishedAt = r.finishedAt.Format(time.RFC3339Nano)
	}

	return snapshot
}

func NewRunner(run RunFunc) *Runner {
	return &Runner{
		run: run,
	}
}
