package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jobberd/jobber/hook"
	"github.com/jobberd/jobber/job"
)

const meterName = "github.com/jobberd/jobber/observability"

// Compile-time interface checks.
var (
	_ hook.Hook         = (*MetricsExtension)(nil)
	_ hook.JobStarted   = (*MetricsExtension)(nil)
	_ hook.JobRetrying  = (*MetricsExtension)(nil)
	_ hook.JobCompleted = (*MetricsExtension)(nil)
	_ hook.JobFailed    = (*MetricsExtension)(nil)
	_ hook.JobCrashed   = (*MetricsExtension)(nil)
	_ hook.JobCancelled = (*MetricsExtension)(nil)
)

// MetricsExtension records engine-wide lifecycle metrics via OpenTelemetry.
// Register it as a hook to track start rates, terminal outcomes by kind,
// retry counts, and the live-job gauge, all partitioned by job type.
type MetricsExtension struct {
	started   metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
	crashed   metric.Int64Counter
	cancelled metric.Int64Counter
	retried   metric.Int64Counter
	live      metric.Int64UpDownCounter
}

// NewMetricsExtension creates a MetricsExtension on the global meter
// provider.
func NewMetricsExtension() (*MetricsExtension, error) {
	return NewMetricsExtensionWithMeter(otel.Meter(meterName))
}

// NewMetricsExtensionWithMeter creates a MetricsExtension with the
// provided meter. Use a manual-reader meter in tests.
func NewMetricsExtensionWithMeter(meter metric.Meter) (*MetricsExtension, error) {
	m := &MetricsExtension{}
	var err error

	if m.started, err = meter.Int64Counter("jobber.jobs.started",
		metric.WithDescription("Jobs admitted and started"),
	); err != nil {
		return nil, err
	}
	if m.completed, err = meter.Int64Counter("jobber.jobs.completed",
		metric.WithDescription("Jobs that finished successfully"),
	); err != nil {
		return nil, err
	}
	if m.failed, err = meter.Int64Counter("jobber.jobs.failed",
		metric.WithDescription("Jobs that exhausted their retries"),
	); err != nil {
		return nil, err
	}
	if m.crashed, err = meter.Int64Counter("jobber.jobs.crashed",
		metric.WithDescription("Jobs terminated by panic or unrecoverable error"),
	); err != nil {
		return nil, err
	}
	if m.cancelled, err = meter.Int64Counter("jobber.jobs.cancelled",
		metric.WithDescription("Jobs cancelled before reaching done or failed"),
	); err != nil {
		return nil, err
	}
	if m.retried, err = meter.Int64Counter("jobber.jobs.retried",
		metric.WithDescription("Retry executions scheduled"),
	); err != nil {
		return nil, err
	}
	if m.live, err = meter.Int64UpDownCounter("jobber.jobs.live",
		metric.WithDescription("Jobs currently live"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// Name implements hook.Hook.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

func typeAttr(j *job.Job) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("job_type", j.Type()))
}

// OnJobStarted implements hook.JobStarted.
func (m *MetricsExtension) OnJobStarted(ctx context.Context, j *job.Job) error {
	m.started.Add(ctx, 1, typeAttr(j))
	m.live.Add(ctx, 1, typeAttr(j))
	return nil
}

// OnJobRetrying implements hook.JobRetrying.
func (m *MetricsExtension) OnJobRetrying(ctx context.Context, j *job.Job, _ int, _ time.Time) error {
	m.retried.Add(ctx, 1, typeAttr(j))
	return nil
}

// OnJobCompleted implements hook.JobCompleted.
func (m *MetricsExtension) OnJobCompleted(ctx context.Context, j *job.Job, _ job.Outcome) error {
	m.completed.Add(ctx, 1, typeAttr(j))
	m.live.Add(ctx, -1, typeAttr(j))
	return nil
}

// OnJobFailed implements hook.JobFailed.
func (m *MetricsExtension) OnJobFailed(ctx context.Context, j *job.Job, _ job.Outcome) error {
	m.failed.Add(ctx, 1, typeAttr(j))
	m.live.Add(ctx, -1, typeAttr(j))
	return nil
}

// OnJobCrashed implements hook.JobCrashed.
func (m *MetricsExtension) OnJobCrashed(ctx context.Context, j *job.Job, _ job.Outcome) error {
	m.crashed.Add(ctx, 1, typeAttr(j))
	m.live.Add(ctx, -1, typeAttr(j))
	return nil
}

// OnJobCancelled implements hook.JobCancelled.
func (m *MetricsExtension) OnJobCancelled(ctx context.Context, j *job.Job, _ job.Outcome) error {
	m.cancelled.Add(ctx, 1, typeAttr(j))
	m.live.Add(ctx, -1, typeAttr(j))
	return nil
}
