package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jobberd/jobber/job"
)

// tracerName is the instrumentation scope name for jobber tracing.
const tracerName = "github.com/jobberd/jobber"

// Tracing returns middleware that wraps each execution attempt in an
// OpenTelemetry span, using the global TracerProvider. With no provider
// configured this is a pass-through with zero overhead.
//
// Span attributes: jobber.job.id, jobber.job.type, jobber.retries,
// jobber.max_retries. On error the span status is set to codes.Error.
func Tracing() Middleware {
	return TracingWithTracer(otel.Tracer(tracerName))
}

// TracingWithTracer returns tracing middleware using the provided
// tracer. This variant allows injecting a specific TracerProvider for
// testing or when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) error {
		ctx, span := tracer.Start(ctx, "jobber.job.execute",
			trace.WithAttributes(
				attribute.String("jobber.job.id", j.ID()),
				attribute.String("jobber.job.type", j.Type()),
				attribute.Int("jobber.retries", j.Retries()),
				attribute.Int("jobber.max_retries", j.MaxRetries()),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
