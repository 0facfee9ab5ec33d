package hook

import (
	"context"
	"log/slog"
	"time"

	"github.com/jobberd/jobber/job"
)

// Named entry types pair a hook implementation with the name captured at
// registration time, so emit methods never type-assert back to Hook.
type jobStartedEntry struct {
	name string
	hook JobStarted
}

type jobRetryingEntry struct {
	name string
	hook JobRetrying
}

type jobCompletedEntry struct {
	name string
	hook JobCompleted
}

type jobFailedEntry struct {
	name string
	hook JobFailed
}

type jobCrashedEntry struct {
	name string
	hook JobCrashed
}

type jobCancelledEntry struct {
	name string
	hook JobCancelled
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered hooks and dispatches lifecycle events to
// them. Hooks are type-cached at registration time so each emit call
// iterates only over hooks that implement the relevant event.
type Registry struct {
	hooks  []Hook
	logger *slog.Logger

	jobStarted   []jobStartedEntry
	jobRetrying  []jobRetryingEntry
	jobCompleted []jobCompletedEntry
	jobFailed    []jobFailedEntry
	jobCrashed   []jobCrashedEntry
	jobCancelled []jobCancelledEntry
	shutdown     []shutdownEntry
}

// NewRegistry creates a hook registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a hook and caches it under every event interface it
// implements. Hooks are notified in registration order. Register is not
// safe to call concurrently with emits; register everything up front.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)
	name := h.Name()

	if e, ok := h.(JobStarted); ok {
		r.jobStarted = append(r.jobStarted, jobStartedEntry{name, e})
	}
	if e, ok := h.(JobRetrying); ok {
		r.jobRetrying = append(r.jobRetrying, jobRetryingEntry{name, e})
	}
	if e, ok := h.(JobCompleted); ok {
		r.jobCompleted = append(r.jobCompleted, jobCompletedEntry{name, e})
	}
	if e, ok := h.(JobFailed); ok {
		r.jobFailed = append(r.jobFailed, jobFailedEntry{name, e})
	}
	if e, ok := h.(JobCrashed); ok {
		r.jobCrashed = append(r.jobCrashed, jobCrashedEntry{name, e})
	}
	if e, ok := h.(JobCancelled); ok {
		r.jobCancelled = append(r.jobCancelled, jobCancelledEntry{name, e})
	}
	if e, ok := h.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, e})
	}
}

// Hooks returns the registered hooks in registration order.
func (r *Registry) Hooks() []Hook { return r.hooks }

// EmitJobStarted notifies all hooks that implement JobStarted.
func (r *Registry) EmitJobStarted(ctx context.Context, j *job.Job) {
	for _, e := range r.jobStarted {
		if err := e.hook.OnJobStarted(ctx, j); err != nil {
			r.logHookError("OnJobStarted", e.name, err)
		}
	}
}

// EmitJobRetrying notifies all hooks that implement JobRetrying.
func (r *Registry) EmitJobRetrying(ctx context.Context, j *job.Job, attempt int, next time.Time) {
	for _, e := range r.jobRetrying {
		if err := e.hook.OnJobRetrying(ctx, j, attempt, next); err != nil {
			r.logHookError("OnJobRetrying", e.name, err)
		}
	}
}

// EmitJobCompleted notifies all hooks that implement JobCompleted.
func (r *Registry) EmitJobCompleted(ctx context.Context, j *job.Job, out job.Outcome) {
	for _, e := range r.jobCompleted {
		if err := e.hook.OnJobCompleted(ctx, j, out); err != nil {
			r.logHookError("OnJobCompleted", e.name, err)
		}
	}
}

// EmitJobFailed notifies all hooks that implement JobFailed.
func (r *Registry) EmitJobFailed(ctx context.Context, j *job.Job, out job.Outcome) {
	for _, e := range r.jobFailed {
		if err := e.hook.OnJobFailed(ctx, j, out); err != nil {
			r.logHookError("OnJobFailed", e.name, err)
		}
	}
}

// EmitJobCrashed notifies all hooks that implement JobCrashed.
func (r *Registry) EmitJobCrashed(ctx context.Context, j *job.Job, out job.Outcome) {
	for _, e := range r.jobCrashed {
		if err := e.hook.OnJobCrashed(ctx, j, out); err != nil {
			r.logHookError("OnJobCrashed", e.name, err)
		}
	}
}

// EmitJobCancelled notifies all hooks that implement JobCancelled.
func (r *Registry) EmitJobCancelled(ctx context.Context, j *job.Job, out job.Outcome) {
	for _, e := range r.jobCancelled {
		if err := e.hook.OnJobCancelled(ctx, j, out); err != nil {
			r.logHookError("OnJobCancelled", e.name, err)
		}
	}
}

// EmitShutdown notifies all hooks that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a hook failure. Hook errors never affect the job
// that triggered the event.
func (r *Registry) logHookError(event, name string, err error) {
	r.logger.Warn("hook error",
		slog.String("event", event),
		slog.String("hook", name),
		slog.String("error", err.Error()),
	)
}
