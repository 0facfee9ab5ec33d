package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jobberd/jobber/job"
)

// ErrPoolStopped is returned when a job is spawned on a stopped pool.
var ErrPoolStopped = errors.New("runner: pool stopped")

// Pool tracks the dynamic set of live job supervisors. Its size is
// unbounded by default; admission limits are enforced upstream, before
// Spawn. Entries remove themselves when a job terminates; there is no
// explicit remove operation.
type Pool struct {
	exec   *Executor
	logger *slog.Logger

	mu          sync.Mutex
	supervisors map[string]*Supervisor
	observers   []func(jobID string)
	stopped     bool
	wg          sync.WaitGroup
}

// NewPool creates an empty pool executing jobs through exec.
func NewPool(exec *Executor, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{
		exec:        exec,
		logger:      logger,
		supervisors: make(map[string]*Supervisor),
	}
}

// Spawn starts j under a fresh supervisor in its own goroutine and
// tracks it in the pool. Every spawned job is failure-isolated: one
// job's crash never affects siblings or the pool itself.
func (p *Pool) Spawn(j *job.Job) (*Supervisor, error) {
	ctx, cancel := context.WithCancel(context.Background())

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		cancel()
		return nil, ErrPoolStopped
	}
	s := newSupervisor(j, p.exec, p.remove)
	s.cancel = cancel
	p.supervisors[j.ID()] = s
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer cancel()
		s.run(ctx)
	}()

	p.logger.Debug("job spawned",
		slog.String("job_id", j.ID()),
		slog.String("job_type", j.Type()),
	)
	return s, nil
}

// remove is the supervisor's exit callback: it drops the pool entry and
// notifies termination observers.
func (p *Pool) remove(s *Supervisor) {
	jobID := s.Job().ID()

	p.mu.Lock()
	delete(p.supervisors, jobID)
	observers := p.observers
	p.mu.Unlock()

	for _, fn := range observers {
		fn(jobID)
	}
	p.wg.Done()
}

// OnTerminate registers fn to run whenever a job terminates, after its
// pool entry is removed. Register observers before spawning.
func (p *Pool) OnTerminate(fn func(jobID string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// Count returns the number of live supervisors.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.supervisors)
}

// List returns the jobs currently running in the pool.
func (p *Pool) List() []*job.Job {
	p.mu.Lock()
	defer p.mu.Unlock()

	jobs := make([]*job.Job, 0, len(p.supervisors))
	for _, s := range p.supervisors {
		jobs = append(jobs, s.Job())
	}
	return jobs
}

// Get returns the supervisor for a live job.
func (p *Pool) Get(jobID string) (*Supervisor, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.supervisors[jobID]
	return s, ok
}

// Stop refuses further spawns and waits for live jobs to finish. If ctx
// expires first, the remaining jobs' contexts are cancelled and Stop
// waits for them to unwind.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()

	p.logger.Info("pool stopping", slog.Int("live_jobs", p.Count()))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("pool stopped gracefully")
	case <-ctx.Done():
		p.logger.Warn("pool shutdown deadline hit, cancelling live jobs")
		p.cancelAll()
		<-done
	}
	return nil
}

func (p *Pool) cancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for jobID, s := range p.supervisors {
		p.logger.Warn("cancelling live job", slog.String("job_id", jobID))
		s.cancel()
	}
}
