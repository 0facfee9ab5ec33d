// Package observability provides an OpenTelemetry metrics extension for
// the job engine. The MetricsExtension implements lifecycle hooks to
// record engine-wide counters for job start, completion, failure, crash,
// cancellation, and retry events, plus a live-job gauge, all keyed by
// job type.
//
// For per-attempt tracing and latency metrics, see the middleware
// package: middleware.Tracing() and middleware.Metrics().
package observability
