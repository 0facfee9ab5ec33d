// Package history keeps a bounded in-memory archive of terminal job
// outcomes for inspection.
//
// A job that reaches done or failed vanishes from the registry and the
// pool; the archive is where its outcome remains observable. Records are
// process-local and never persisted.
package history

import (
	"sync"
	"time"

	"github.com/jobberd/jobber/job"
)

// DefaultLimit is the archive capacity used when none is configured.
const DefaultLimit = 256

// Record captures the terminal outcome of one job.
type Record struct {
	JobID      string
	Type       string
	Kind       job.Kind
	Error      string // last error text for failed, crashed, cancelled
	Retries    int
	MaxRetries int
	FinishedAt time.Time
}

// Archive is a bounded, most-recent-first log of terminal outcomes.
// When full, the oldest record is dropped. Safe for concurrent use.
type Archive struct {
	mu      sync.RWMutex
	limit   int
	records []*Record
	byID    map[string]*Record
}

// New creates an archive holding at most limit records.
// A non-positive limit selects DefaultLimit.
func New(limit int) *Archive {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Archive{
		limit: limit,
		byID:  make(map[string]*Record),
	}
}

// Add archives the terminal outcome of j.
func (a *Archive) Add(j *job.Job, out job.Outcome) {
	rec := &Record{
		JobID:      j.ID(),
		Type:       j.Type(),
		Kind:       out.Kind,
		Retries:    out.Retries,
		MaxRetries: j.MaxRetries(),
		FinishedAt: out.FinishedAt,
	}
	if out.Err != nil {
		rec.Error = out.Err.Error()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.records) == a.limit {
		oldest := a.records[0]
		a.records = a.records[1:]
		if a.byID[oldest.JobID] == oldest {
			delete(a.byID, oldest.JobID)
		}
	}
	a.records = append(a.records, rec)
	a.byID[rec.JobID] = rec
}

// List returns all records, most recent first.
func (a *Archive) List() []*Record {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*Record, len(a.records))
	for i, rec := range a.records {
		out[len(a.records)-1-i] = rec
	}
	return out
}

// ListByKind returns records with the given outcome kind, most recent
// first.
func (a *Archive) ListByKind(kind job.Kind) []*Record {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []*Record
	for i := len(a.records) - 1; i >= 0; i-- {
		if a.records[i].Kind == kind {
			out = append(out, a.records[i])
		}
	}
	return out
}

// Get returns the archived record for a job identifier.
func (a *Archive) Get(jobID string) (*Record, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rec, ok := a.byID[jobID]
	return rec, ok
}

// Count returns the number of archived records.
func (a *Archive) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}

// Purge drops all records.
func (a *Archive) Purge() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = nil
	a.byID = make(map[string]*Record)
}
