// Package hook defines the lifecycle hook system for the job engine.
// Hooks are notified of job lifecycle events (started, retrying,
// completed, failed, crashed, cancelled) and can react to them with
// logging, metrics, alerting, or bookkeeping.
//
// Each lifecycle event is a separate interface so hooks opt in only to
// the events they care about. Starting a job is fire-and-forget; hooks
// are the push-style channel for observing what became of it.
package hook

import (
	"context"
	"time"

	"github.com/jobberd/jobber/job"
)

// Hook is the base interface all hooks must implement.
type Hook interface {
	// Name returns a unique human-readable name for the hook.
	Name() string
}

// JobStarted is called when a job's execution goroutine begins.
type JobStarted interface {
	OnJobStarted(ctx context.Context, j *job.Job) error
}

// JobRetrying is called when an execution fails and a re-execution is
// scheduled. attempt is the 1-based retry number; next is when the
// re-execution is due.
type JobRetrying interface {
	OnJobRetrying(ctx context.Context, j *job.Job, attempt int, next time.Time) error
}

// JobCompleted is called after a job finishes successfully.
type JobCompleted interface {
	OnJobCompleted(ctx context.Context, j *job.Job, out job.Outcome) error
}

// JobFailed is called when a job exhausts its retry budget.
type JobFailed interface {
	OnJobFailed(ctx context.Context, j *job.Job, out job.Outcome) error
}

// JobCrashed is called when a job terminates on an unrecoverable fault.
type JobCrashed interface {
	OnJobCrashed(ctx context.Context, j *job.Job, out job.Outcome) error
}

// JobCancelled is called when a job's run context is cancelled before
// it reaches done or failed, typically during forced shutdown.
type JobCancelled interface {
	OnJobCancelled(ctx context.Context, j *job.Job, out job.Outcome) error
}

// Shutdown is called during graceful shutdown of the engine.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
