package runner

import (
	"context"
	"runtime/debug"

	"github.com/jobberd/jobber/job"
)

// Supervisor owns exactly one job's execution goroutine. It is a
// non-restarting, one-to-one wrapper: when the job underneath it
// terminates, whether in success or failure, the supervisor
// unwinds and the pool entry is removed. Retries live entirely inside
// the job; a supervisor never resurrects anything.
type Supervisor struct {
	job    *job.Job
	exec   *Executor
	onExit func(*Supervisor)
	cancel context.CancelFunc
	done   chan struct{}
}

func newSupervisor(j *job.Job, exec *Executor, onExit func(*Supervisor)) *Supervisor {
	return &Supervisor{
		job:    j,
		exec:   exec,
		onExit: onExit,
		done:   make(chan struct{}),
	}
}

// Job returns the supervised job.
func (s *Supervisor) Job() *job.Job { return s.job }

// Done returns a channel closed when the supervisor has fully unwound:
// the job is terminal, unregistered, and removed from the pool.
func (s *Supervisor) Done() <-chan struct{} { return s.done }

// run drives the job to termination. The last-resort recover keeps a
// panicking work unit isolated to this goroutine: siblings and the pool
// never see it. Deferred steps unwind innermost-first, so the pool entry
// is removed before the job settles and Done closes.
func (s *Supervisor) run(ctx context.Context) {
	defer close(s.done)
	defer s.job.Settle()
	defer s.onExit(s)
	defer func() {
		if r := recover(); r != nil {
			out := s.job.Crash(&job.PanicError{Value: r, Stack: debug.Stack()})
			s.exec.teardown(ctx, s.job, out)
		}
	}()

	s.exec.hooks.EmitJobStarted(ctx, s.job)
	out := s.job.Run(ctx, s.exec.Attempt, &notifier{r: s.exec.hooks})
	s.exec.teardown(ctx, s.job, out)
}
