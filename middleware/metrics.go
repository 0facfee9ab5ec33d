package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jobberd/jobber/job"
)

// meterName is the instrumentation scope name for jobber metrics.
const meterName = "github.com/jobberd/jobber"

// Metrics returns middleware that records per-attempt execution metrics
// using the global OTel MeterProvider. With no provider configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - jobber.attempt.duration (Float64Histogram): attempt time in
//     seconds, with attributes: job_type, status ("ok" or "error")
//   - jobber.attempt.total (Int64Counter): total attempts,
//     with attributes: job_type, status ("ok" or "error")
func Metrics() Middleware {
	return MetricsWithMeter(otel.Meter(meterName))
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Instruments are created once at construction time; the OTel API
	// guarantees noop fallbacks on error, so errors are ignored.
	duration, _ := meter.Float64Histogram(
		"jobber.attempt.duration",
		metric.WithDescription("Duration of a single work unit attempt in seconds"),
		metric.WithUnit("s"),
	)
	attempts, _ := meter.Int64Counter(
		"jobber.attempt.total",
		metric.WithDescription("Total number of work unit attempts"),
		metric.WithUnit("{attempt}"),
	)

	return func(ctx context.Context, j *job.Job, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		if err != nil {
			status = "error"
		}

		attrs := metric.WithAttributes(
			attribute.String("job_type", j.Type()),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		attempts.Add(ctx, 1, attrs)

		return err
	}
}
