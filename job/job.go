package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jobberd/jobber/backoff"
	"github.com/jobberd/jobber/id"
)

// Status represents the lifecycle state of a job.
type Status string

const (
	// StatusNew means the job has been admitted but has not failed yet.
	StatusNew Status = "new"
	// StatusErrored means at least one execution failed and the job is
	// waiting for, or performing, a re-execution.
	StatusErrored Status = "errored"
	// StatusDone means an execution succeeded. Terminal.
	StatusDone Status = "done"
	// StatusFailed means the job will never execute again, either because
	// its retry budget is exhausted or because it crashed. Terminal.
	StatusFailed Status = "failed"
)

// WorkUnit is the callable a job executes and, on failure, re-executes.
// It returns a result value on success or an error on failure. Work units
// must not be assumed idempotent: every retry re-invokes them in full.
// A panic, or an error wrapped with [Unrecoverable], is treated as an
// unrecoverable fault and is never retried.
type WorkUnit func(ctx context.Context) (any, error)

// Kind classifies a terminal outcome.
type Kind string

const (
	// KindDone means the work succeeded.
	KindDone Kind = "done"
	// KindFailed means the retry budget was exhausted.
	KindFailed Kind = "failed"
	// KindCrashed means the work raised an unrecoverable fault.
	KindCrashed Kind = "crashed"
	// KindCancelled means the run context was cancelled before the job
	// reached done or failed.
	KindCancelled Kind = "cancelled"
)

// Outcome is the terminal result of a job.
type Outcome struct {
	Kind       Kind
	Value      any   // result value when Kind == KindDone
	Err        error // last error for failed, crashed, and cancelled jobs
	Retries    int   // re-executions performed
	FinishedAt time.Time
}

// AttemptFunc performs one execution of a job's work unit. The runner
// supplies it, typically as the job's work wrapped in a middleware chain.
type AttemptFunc func(ctx context.Context, j *Job) (any, error)

// Notifier observes retry scheduling. attempt is the 1-based retry number
// and next is when the re-execution is due.
type Notifier interface {
	JobRetrying(ctx context.Context, j *Job, attempt int, next time.Time)
}

// Job is a single unit of supervised work. All retry bookkeeping lives
// here; only the job's own run loop mutates it.
type Job struct {
	jobID      string
	jobType    string
	work       WorkUnit
	maxRetries int
	delay      backoff.Strategy
	timeout    time.Duration

	mu      sync.Mutex
	status  Status
	retries int
	started bool
	outcome Outcome

	done     chan struct{}
	doneOnce sync.Once
}

var (
	// ErrNilWork is returned by New when no work unit is supplied.
	ErrNilWork = errors.New("job: nil work unit")
	// ErrNegativeRetries is returned by New for a negative retry budget.
	ErrNegativeRetries = errors.New("job: negative max retries")
)

// New creates a job for the given work unit. An ID is generated unless
// one is supplied via [WithID].
func New(work WorkUnit, opts ...Option) (*Job, error) {
	if work == nil {
		return nil, ErrNilWork
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxRetries < 0 {
		return nil, ErrNegativeRetries
	}
	if o.ID == "" {
		o.ID = id.New()
	}
	if o.Delay == nil {
		o.Delay = backoff.Default()
	}

	return &Job{
		jobID:      o.ID,
		jobType:    o.Type,
		work:       work,
		maxRetries: o.MaxRetries,
		delay:      o.Delay,
		timeout:    o.Timeout,
		status:     StatusNew,
		done:       make(chan struct{}),
	}, nil
}

// ID returns the job's unique identifier.
func (j *Job) ID() string { return j.jobID }

// Type returns the job's classification tag. May be empty.
func (j *Job) Type() string { return j.jobType }

// MaxRetries returns the job's retry budget.
func (j *Job) MaxRetries() int { return j.maxRetries }

// Timeout returns the per-attempt execution deadline. Zero means none.
func (j *Job) Timeout() time.Duration { return j.timeout }

// Status returns the job's current lifecycle state.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Retries returns how many re-executions have been performed or scheduled.
// Never exceeds MaxRetries.
func (j *Job) Retries() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.retries
}

// Done returns a channel closed once the job has reached a terminal
// outcome and its registry entry has been removed. A job that wakes an
// observer here is no longer visible to type queries.
func (j *Job) Done() <-chan struct{} { return j.done }

// Settle closes Done. The runner calls it after removing the job from
// the registry; the terminal outcome must already be recorded.
func (j *Job) Settle() {
	j.doneOnce.Do(func() { close(j.done) })
}

// Outcome returns the terminal outcome. ok is false while the job is
// still live.
func (j *Job) Outcome() (Outcome, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusDone && j.status != StatusFailed {
		return Outcome{}, false
	}
	return j.outcome, true
}

// Invoke executes the job's work unit once. It is the terminal step of
// the runner's middleware chain.
func (j *Job) Invoke(ctx context.Context) (any, error) {
	return j.work(ctx)
}

// Run drives the job to a terminal outcome: it executes the work unit,
// classifies the result, and sleeps out the retry delay between failed
// attempts. It blocks until the job is done, failed, crashed, or ctx is
// cancelled, and may be called at most once.
//
// attempt performs a single execution (usually j.Invoke behind
// middleware); a panic from it propagates to the caller, which is
// expected to finalize via [Job.Crash]. n may be nil.
func (j *Job) Run(ctx context.Context, attempt AttemptFunc, n Notifier) Outcome {
	j.mu.Lock()
	if j.started {
		out := j.outcome
		j.mu.Unlock()
		return out
	}
	j.started = true
	j.mu.Unlock()

	for {
		value, err := attempt(ctx, j)

		if err == nil {
			return j.finish(Outcome{Kind: KindDone, Value: value})
		}
		if IsUnrecoverable(err) {
			return j.finish(Outcome{Kind: KindCrashed, Err: err})
		}

		wait, terminal := j.recordFailure()
		if terminal {
			return j.finish(Outcome{Kind: KindFailed, Err: err})
		}

		if n != nil {
			n.JobRetrying(ctx, j, j.Retries(), time.Now().Add(wait))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return j.finish(Outcome{Kind: KindCancelled, Err: ctx.Err()})
		case <-timer.C:
		}
	}
}

// Crash finalizes the job after an unrecoverable fault that escaped the
// run loop (a work unit panic). Called by the supervisor.
func (j *Job) Crash(err error) Outcome {
	return j.finish(Outcome{Kind: KindCrashed, Err: err})
}

// recordFailure applies one transient failure to the state machine.
// The status passes through errored even when the failure is terminal.
// When another re-execution is allowed, the retry counter is incremented
// and the delay before it is returned.
func (j *Job) recordFailure() (wait time.Duration, terminal bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.status = StatusErrored
	if j.retries == j.maxRetries {
		return 0, true
	}
	j.retries++
	return j.delay.Delay(j.retries), false
}

// finish records the terminal outcome exactly once. Done stays open
// until Settle runs.
func (j *Job) finish(out Outcome) Outcome {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status == StatusDone || j.status == StatusFailed {
		return j.outcome
	}

	out.Retries = j.retries
	out.FinishedAt = time.Now().UTC()
	if out.Kind == KindDone {
		j.status = StatusDone
	} else {
		j.status = StatusFailed
	}
	j.outcome = out
	return out
}
