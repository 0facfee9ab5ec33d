// Package schedule runs recurring jobs on cron expressions.
//
// Each entry submits a fresh job through the engine's normal admission
// path on every tick, so scheduled work is subject to the same quota
// checks as ad-hoc jobs. A denied tick is logged and skipped; the entry
// stays installed and fires again at the next tick.
package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/jobberd/jobber/job"
)

// ErrDuplicateSchedule is returned when an entry with the same name is
// already installed.
var ErrDuplicateSchedule = errors.New("schedule: duplicate entry name")

// Submitter starts one job through the engine's admission path. It is
// how the scheduler hands work back to the facade without importing it.
type Submitter func(ctx context.Context, work job.WorkUnit, opts ...job.Option) error

// Scheduler owns the cron runner and the named entries installed on it.
// Safe for concurrent use.
type Scheduler struct {
	cron   *cron.Cron
	submit Submitter
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New creates a stopped Scheduler that submits ticks through submit.
// Standard five-field cron expressions and descriptors such as
// "@hourly" and "@every 30s" are accepted.
func New(submit Submitter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		submit:  submit,
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// Add installs a named recurring entry. The name must be unique and the
// expression must parse; the entry first fires once the scheduler is
// started.
func (s *Scheduler) Add(name, expr string, work job.WorkUnit, opts ...job.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return ErrDuplicateSchedule
	}

	id, err := s.cron.AddFunc(expr, func() { s.tick(name, work, opts) })
	if err != nil {
		return err
	}
	s.entries[name] = id
	s.logger.Info("schedule installed",
		slog.String("name", name),
		slog.String("expr", expr),
	)
	return nil
}

func (s *Scheduler) tick(name string, work job.WorkUnit, opts []job.Option) {
	if err := s.submit(context.Background(), work, opts...); err != nil {
		s.logger.Warn("scheduled job not admitted",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
	}
}

// Remove uninstalls a named entry. Removing an unknown name is a no-op.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
		s.logger.Info("schedule removed", slog.String("name", name))
	}
}

// Names returns the installed entry names.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}

// Start begins firing entries. Safe to call once.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts future ticks and waits for in-flight tick callbacks. If
// ctx expires first, Stop returns its error without waiting further;
// jobs the ticks already submitted keep running under the pool.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
