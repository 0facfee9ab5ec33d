// Package registry indexes live jobs by identifier and type.
//
// The registry is a derived index, not a source of truth: an entry exists
// exactly while the job's execution goroutine is live. It is never
// persisted or reconciled from anywhere else. Registration and the
// admission decision run under one lock, so concurrent admissions cannot
// overshoot a per-type limit.
package registry

import (
	"errors"
	"sync"

	"github.com/jobberd/jobber/job"
)

// ErrDuplicateID is returned when a caller-supplied job identifier
// collides with a live job.
var ErrDuplicateID = errors.New("registry: duplicate job id")

// AdmitFunc decides whether a job may be registered. It is called with
// the candidate's type and the number of live jobs of that type while
// the registry lock is held; returning an error aborts the registration
// with no side effects.
type AdmitFunc func(jobType string, live int) error

// Registry is the index of currently live jobs. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]*job.Job
	byType map[string]map[string]*job.Job
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:   make(map[string]*job.Job),
		byType: make(map[string]map[string]*job.Job),
	}
}

// Register adds a job to the index. admit, when non-nil, runs inside the
// same critical section as the insertion; check-and-register is atomic
// with respect to concurrent registrations.
func (r *Registry) Register(j *job.Job, admit AdmitFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[j.ID()]; exists {
		return ErrDuplicateID
	}
	if admit != nil {
		if err := admit(j.Type(), len(r.byType[j.Type()])); err != nil {
			return err
		}
	}

	r.byID[j.ID()] = j
	t := r.byType[j.Type()]
	if t == nil {
		t = make(map[string]*job.Job)
		r.byType[j.Type()] = t
	}
	t[j.ID()] = j
	return nil
}

// Unregister removes a job from the index. Removing an unknown
// identifier is a no-op. The runner calls this when a job's execution
// goroutine terminates; it is not an operation callers should invoke.
func (r *Registry) Unregister(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.byID[jobID]
	if !ok {
		return
	}
	delete(r.byID, jobID)

	t := r.byType[j.Type()]
	delete(t, jobID)
	if len(t) == 0 {
		delete(r.byType, j.Type())
	}
}

// Get returns the live job with the given identifier.
func (r *Registry) Get(jobID string) (*job.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.byID[jobID]
	return j, ok
}

// SelectByType returns all live jobs with the given type.
func (r *Registry) SelectByType(jobType string) []*job.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := r.byType[jobType]
	jobs := make([]*job.Job, 0, len(t))
	for _, j := range t {
		jobs = append(jobs, j)
	}
	return jobs
}

// Count returns the number of live jobs.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// CountByType returns the number of live jobs with the given type.
func (r *Registry) CountByType(jobType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType[jobType])
}
