package jobber

import "time"

// DefaultImportLimit is the live-job cap applied to the "import" type
// when no explicit quota is configured.
const DefaultImportLimit = 5

// Config holds configuration for the engine.
type Config struct {
	// DefaultMaxRetries is applied to jobs that do not set their own
	// retry budget.
	DefaultMaxRetries int

	// RetryDelay is the pause between a failed execution and its retry
	// for jobs that do not set their own backoff strategy. Non-positive
	// values select the default of one second.
	RetryDelay time.Duration

	// ShutdownTimeout is the maximum time Stop waits for live jobs
	// before cancelling them.
	ShutdownTimeout time.Duration

	// HistoryLimit bounds the in-memory archive of terminal jobs.
	HistoryLimit int

	// Observability registers the OpenTelemetry lifecycle metrics
	// extension on the global meter provider.
	Observability bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMaxRetries: 3,
		RetryDelay:        1 * time.Second,
		ShutdownTimeout:   30 * time.Second,
		HistoryLimit:      256,
		Observability:     true,
	}
}
