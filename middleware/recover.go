package middleware

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/jobberd/jobber/job"
)

// Recover returns middleware that recovers from panics in the handler
// chain. A panic is converted into a *job.PanicError, which the retry
// machine treats as an unrecoverable fault: the job terminates without
// retrying. The panic value and stack trace are logged.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger.Error("work unit panicked",
					slog.String("job_id", j.ID()),
					slog.String("job_type", j.Type()),
					slog.Any("panic", r),
					slog.String("stack", string(stack)),
				)
				retErr = &job.PanicError{Value: r, Stack: stack}
			}
		}()
		return next(ctx)
	}
}
