package job

import (
	"time"

	"github.com/jobberd/jobber/backoff"
)

// Options configures per-job behavior such as identity, classification,
// and the retry budget.
type Options struct {
	// ID overrides the generated job identifier.
	ID string

	// Type classifies the job for quota enforcement and type queries.
	// Empty means unclassified.
	Type string

	// MaxRetries is the maximum number of re-executions after a failed
	// attempt. Zero means a first failure is terminal.
	MaxRetries int

	// Delay computes the wait before each re-execution.
	Delay backoff.Strategy

	// Timeout is the maximum duration of a single attempt. A timed-out
	// attempt counts as a transient failure. Zero means unlimited.
	Timeout time.Duration
}

// DefaultOptions returns the Options jobs start from.
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
	}
}

// Option is a functional option for configuring a job.
type Option func(*Options)

// WithID sets a caller-supplied job identifier.
func WithID(jobID string) Option {
	return func(o *Options) { o.ID = jobID }
}

// WithType sets the job's classification tag.
func WithType(t string) Option {
	return func(o *Options) { o.Type = t }
}

// WithMaxRetries sets the retry budget.
func WithMaxRetries(n int) Option {
	return func(o *Options) { o.MaxRetries = n }
}

// WithDelay sets the backoff strategy used between attempts.
func WithDelay(s backoff.Strategy) Option {
	return func(o *Options) { o.Delay = s }
}

// WithTimeout sets the per-attempt execution deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.Timeout = d }
}
