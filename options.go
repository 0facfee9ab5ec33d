package jobber

import (
	"log/slog"

	"github.com/jobberd/jobber/backoff"
	"github.com/jobberd/jobber/hook"
	"github.com/jobberd/jobber/middleware"
	"github.com/jobberd/jobber/quota"
)

// Option configures an engine before its components are wired.
type Option func(*Jobber) error

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(jb *Jobber) error {
		jb.config = cfg
		return nil
	}
}

// WithLogger sets the structured logger for the engine and every
// subsystem it builds.
func WithLogger(l *slog.Logger) Option {
	return func(jb *Jobber) error {
		jb.logger = l
		return nil
	}
}

// WithQuota installs or overrides admission limits for job types.
// Types without a quota are admitted unconditionally, except "import"
// which defaults to DefaultImportLimit.
func WithQuota(configs ...quota.Config) Option {
	return func(jb *Jobber) error {
		for _, cfg := range configs {
			jb.quotas.SetConfig(cfg)
		}
		return nil
	}
}

// WithBackoff sets the default retry delay strategy for jobs that do
// not choose their own.
func WithBackoff(s backoff.Strategy) Option {
	return func(jb *Jobber) error {
		jb.delay = s
		return nil
	}
}

// WithMiddleware appends execution middleware after the engine's
// built-in stack. Middleware wraps every attempt of every job.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(jb *Jobber) error {
		jb.extraMW = append(jb.extraMW, mws...)
		return nil
	}
}

// WithHook registers a lifecycle hook. Hooks are notified in
// registration order.
func WithHook(hooks ...hook.Hook) Option {
	return func(jb *Jobber) error {
		jb.pendingHooks = append(jb.pendingHooks, hooks...)
		return nil
	}
}
