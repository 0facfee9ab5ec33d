// Package quota enforces per-type admission limits for jobs.
//
// A limit caps how many jobs of one type may be live at once, and can
// additionally rate-limit admissions with a token bucket. The live count
// itself is never stored here; it is supplied by the caller from the
// registry at admission time, so check and registration stay one atomic
// step.
package quota

import (
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

// ErrAdmissionDenied is returned when a job is refused at admission,
// either because its type is at the live-job cap or because the type's
// admission rate limit is exhausted.
var ErrAdmissionDenied = errors.New("quota: admission denied")

// Config defines the admission limits for one job type.
type Config struct {
	// Type is the job type the limits apply to.
	Type string

	// MaxLive caps how many jobs of this type may be live at once.
	// Zero means no cap.
	MaxLive int

	// RateLimit is the maximum sustained admissions per second for this
	// type. Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the burst size for the token-bucket rate limiter.
	// Defaults to 1 if RateLimit is set but RateBurst is zero.
	RateBurst int
}

// typeState holds the runtime limiter for a configured type.
type typeState struct {
	config  Config
	limiter *rate.Limiter
}

// Manager holds admission limits keyed by job type. Types without a
// configuration are admitted unconditionally. Safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	types map[string]*typeState
}

// NewManager creates a Manager with the given type configurations.
func NewManager(configs ...Config) *Manager {
	m := &Manager{types: make(map[string]*typeState, len(configs))}
	for _, cfg := range configs {
		m.types[cfg.Type] = newTypeState(cfg)
	}
	return m
}

func newTypeState(cfg Config) *typeState {
	ts := &typeState{config: cfg}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		ts.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return ts
}

// Admit decides whether a job of the given type may start when live jobs
// of that type already exist. It consumes a rate token on types that are
// rate limited. Designed to run as a registry.AdmitFunc, inside the
// registry's critical section.
func (m *Manager) Admit(jobType string, live int) error {
	m.mu.RLock()
	ts := m.types[jobType]
	m.mu.RUnlock()

	if ts == nil {
		return nil
	}
	if ts.config.MaxLive > 0 && live >= ts.config.MaxLive {
		return ErrAdmissionDenied
	}
	if ts.limiter != nil && !ts.limiter.Allow() {
		return ErrAdmissionDenied
	}
	return nil
}

// SetConfig dynamically updates (or creates) the limits for a type.
func (m *Manager) SetConfig(cfg Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[cfg.Type] = newTypeState(cfg)
}

// Limit returns the configured live-job cap for a type. Zero means
// the type is uncapped.
func (m *Manager) Limit(jobType string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ts := m.types[jobType]; ts != nil {
		return ts.config.MaxLive
	}
	return 0
}
