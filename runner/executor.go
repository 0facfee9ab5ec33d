// Package runner executes admitted jobs. An Executor drives each job's
// work through middleware and handles its teardown; a Pool holds one
// supervisor goroutine per job and removes entries on termination.
package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/jobberd/jobber/history"
	"github.com/jobberd/jobber/hook"
	"github.com/jobberd/jobber/job"
	"github.com/jobberd/jobber/middleware"
	"github.com/jobberd/jobber/registry"
)

// Executor runs a job's attempts through the middleware chain and, when
// the job terminates, removes its registry entry, archives the outcome,
// and emits lifecycle hooks.
type Executor struct {
	registry *registry.Registry
	hooks    *hook.Registry
	archive  *history.Archive
	mw       middleware.Middleware
	logger   *slog.Logger
}

// NewExecutor creates an Executor with the given dependencies.
func NewExecutor(
	reg *registry.Registry,
	hooks *hook.Registry,
	archive *history.Archive,
	logger *slog.Logger,
	mws ...middleware.Middleware,
) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		registry: reg,
		hooks:    hooks,
		archive:  archive,
		mw:       middleware.Chain(mws...),
		logger:   logger,
	}
}

// Attempt performs one middleware-wrapped execution of j's work unit.
// It is the job.AttemptFunc the supervisor hands to Job.Run.
func (e *Executor) Attempt(ctx context.Context, j *job.Job) (any, error) {
	var value any
	terminal := func(ctx context.Context) error {
		v, err := j.Invoke(ctx)
		if err == nil {
			value = v
		}
		return err
	}
	err := e.mw(ctx, j, terminal)
	return value, err
}

// notifier adapts the hook registry to job.Notifier so the run loop can
// announce scheduled retries without depending on the hook package.
type notifier struct {
	r *hook.Registry
}

func (n *notifier) JobRetrying(ctx context.Context, j *job.Job, attempt int, next time.Time) {
	n.r.EmitJobRetrying(ctx, j, attempt, next)
}

// teardown finalizes a terminated job: the registry entry goes first,
// then the outcome is archived and the matching lifecycle hook fires.
func (e *Executor) teardown(ctx context.Context, j *job.Job, out job.Outcome) {
	e.registry.Unregister(j.ID())
	e.archive.Add(j, out)

	switch out.Kind {
	case job.KindDone:
		e.hooks.EmitJobCompleted(ctx, j, out)
		e.logger.Info("job done",
			slog.String("job_id", j.ID()),
			slog.String("job_type", j.Type()),
			slog.Int("retries", out.Retries),
		)
	case job.KindFailed:
		e.hooks.EmitJobFailed(ctx, j, out)
		e.logger.Warn("job failed, retries exhausted",
			slog.String("job_id", j.ID()),
			slog.String("job_type", j.Type()),
			slog.Int("retries", out.Retries),
			slog.String("error", out.Err.Error()),
		)
	case job.KindCrashed:
		e.hooks.EmitJobCrashed(ctx, j, out)
		e.logger.Error("job crashed",
			slog.String("job_id", j.ID()),
			slog.String("job_type", j.Type()),
			slog.String("error", out.Err.Error()),
		)
	case job.KindCancelled:
		e.hooks.EmitJobCancelled(ctx, j, out)
		e.logger.Info("job cancelled",
			slog.String("job_id", j.ID()),
			slog.String("job_type", j.Type()),
			slog.String("error", out.Err.Error()),
		)
	}
}
