package jobber

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jobberd/jobber/backoff"
	"github.com/jobberd/jobber/history"
	"github.com/jobberd/jobber/hook"
	"github.com/jobberd/jobber/job"
	"github.com/jobberd/jobber/middleware"
	"github.com/jobberd/jobber/observability"
	"github.com/jobberd/jobber/quota"
	"github.com/jobberd/jobber/registry"
	"github.com/jobberd/jobber/runner"
	"github.com/jobberd/jobber/schedule"
)

// Handle is the caller's view of an admitted job. Wait on Done and read
// the Outcome once it closes; a handle never delivers errors while the
// job is live.
type Handle = job.Job

// Jobber is the admission-control facade for the engine. It is the only
// entry point client code calls: every job enters through StartJob (or
// a schedule that submits through it), passes the type quota check, and
// runs under a supervisor in the engine's pool.
//
// Create one with New() and functional options.
type Jobber struct {
	config Config
	logger *slog.Logger
	delay  backoff.Strategy

	quotas    *quota.Manager
	hooks     *hook.Registry
	registry  *registry.Registry
	archive   *history.Archive
	pool      *runner.Pool
	scheduler *schedule.Scheduler

	// Collected by options, consumed once during New.
	extraMW      []middleware.Middleware
	pendingHooks []hook.Hook

	mu      sync.Mutex
	stopped bool
}

// New creates an engine with the given options and starts its
// scheduler. The returned engine accepts jobs immediately.
func New(opts ...Option) (*Jobber, error) {
	jb := &Jobber{
		config: DefaultConfig(),
		logger: slog.Default(),
		quotas: quota.NewManager(quota.Config{Type: "import", MaxLive: DefaultImportLimit}),
	}
	for _, opt := range opts {
		if err := opt(jb); err != nil {
			return nil, err
		}
	}
	if jb.delay == nil {
		if jb.config.RetryDelay > 0 {
			jb.delay = backoff.NewConstant(jb.config.RetryDelay)
		} else {
			// A config without a retry delay must not mean immediate
			// re-execution.
			jb.delay = backoff.Default()
		}
	}

	jb.hooks = hook.NewRegistry(jb.logger)
	if jb.config.Observability {
		ext, err := observability.NewMetricsExtension()
		if err != nil {
			return nil, err
		}
		jb.hooks.Register(ext)
	}
	for _, h := range jb.pendingHooks {
		jb.hooks.Register(h)
	}
	jb.pendingHooks = nil

	mws := append([]middleware.Middleware{
		middleware.Recover(jb.logger),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.Logging(jb.logger),
		middleware.Timeout(),
	}, jb.extraMW...)

	jb.registry = registry.New()
	jb.archive = history.New(jb.config.HistoryLimit)
	exec := runner.NewExecutor(jb.registry, jb.hooks, jb.archive, jb.logger, mws...)
	jb.pool = runner.NewPool(exec, jb.logger)
	jb.scheduler = schedule.New(jb.submit, jb.logger)
	jb.scheduler.Start()
	return jb, nil
}

// StartJob admits one job and starts it in the background. The job's
// type is checked against the configured quotas; a type at its cap
// returns ErrAdmissionDenied and nothing is mutated. Admission errors
// are the only errors a caller ever receives for a job; later failures
// are retried internally and surface through the handle, hooks, and
// history.
func (jb *Jobber) StartJob(ctx context.Context, work job.WorkUnit, opts ...job.Option) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	jb.mu.Lock()
	if jb.stopped {
		jb.mu.Unlock()
		return nil, ErrStopped
	}
	jb.mu.Unlock()

	base := []job.Option{
		job.WithMaxRetries(jb.config.DefaultMaxRetries),
		job.WithDelay(jb.delay),
	}
	j, err := job.New(work, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	// Quota check and registration are one atomic step inside the
	// registry's critical section, so concurrent admissions can never
	// overshoot a type's cap.
	if err := jb.registry.Register(j, jb.quotas.Admit); err != nil {
		return nil, err
	}
	if _, err := jb.pool.Spawn(j); err != nil {
		jb.registry.Unregister(j.ID())
		return nil, err
	}

	jb.logger.Info("job admitted",
		slog.String("job_id", j.ID()),
		slog.String("job_type", j.Type()),
		slog.Int("max_retries", j.MaxRetries()),
	)
	return j, nil
}

// submit adapts StartJob to the scheduler's Submitter contract.
func (jb *Jobber) submit(ctx context.Context, work job.WorkUnit, opts ...job.Option) error {
	_, err := jb.StartJob(ctx, work, opts...)
	return err
}

// RunningOfType returns handles for all live jobs of the given type.
func (jb *Jobber) RunningOfType(jobType string) []*Handle {
	return jb.registry.SelectByType(jobType)
}

// Running returns the number of live jobs across all types.
func (jb *Jobber) Running() int {
	return jb.pool.Count()
}

// Jobs returns handles for all live jobs.
func (jb *Jobber) Jobs() []*Handle {
	return jb.pool.List()
}

// Lookup resolves a live job by id. Terminal jobs are not found here;
// check History for their final records.
func (jb *Jobber) Lookup(jobID string) (*Handle, bool) {
	return jb.registry.Get(jobID)
}

// Schedule installs a named recurring job. The expression uses standard
// cron syntax or descriptors such as "@hourly" and "@every 30s". Every
// tick submits a fresh job through the normal admission path; denied
// ticks are logged and skipped.
func (jb *Jobber) Schedule(name, expr string, work job.WorkUnit, opts ...job.Option) error {
	return jb.scheduler.Add(name, expr, work, opts...)
}

// Unschedule removes a named recurring job. Jobs already admitted by
// past ticks keep running.
func (jb *Jobber) Unschedule(name string) {
	jb.scheduler.Remove(name)
}

// History returns the archive of terminal job records.
func (jb *Jobber) History() *history.Archive { return jb.archive }

// Quotas returns the admission quota manager for dynamic limit changes.
func (jb *Jobber) Quotas() *quota.Manager { return jb.quotas }

// Logger returns the engine's logger.
func (jb *Jobber) Logger() *slog.Logger { return jb.logger }

// Config returns a copy of the engine's configuration.
func (jb *Jobber) Config() Config { return jb.config }

// Stop shuts the engine down: the scheduler stops ticking, no new jobs
// are admitted, and live jobs are given until ctx (or the configured
// ShutdownTimeout, whichever is sooner) to finish before their contexts
// are cancelled. Shutdown hooks fire once everything has unwound.
func (jb *Jobber) Stop(ctx context.Context) error {
	jb.mu.Lock()
	if jb.stopped {
		jb.mu.Unlock()
		return nil
	}
	jb.stopped = true
	jb.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok && jb.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, jb.config.ShutdownTimeout)
		defer cancel()
	}

	jb.logger.Info("engine stopping", slog.Int("live_jobs", jb.pool.Count()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return jb.scheduler.Stop(gctx) })
	g.Go(func() error { return jb.pool.Stop(gctx) })
	err := g.Wait()

	jb.hooks.EmitShutdown(context.WithoutCancel(ctx))
	jb.logger.Info("engine stopped")
	return err
}
