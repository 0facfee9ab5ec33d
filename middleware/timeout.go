package middleware

import (
	"context"

	"github.com/jobberd/jobber/job"
)

// Timeout returns middleware that enforces the job's per-attempt
// deadline. If the job has a non-zero Timeout, a context.WithTimeout
// wraps the handler call; on expiry the handler should return
// context.DeadlineExceeded, which counts as a transient failure.
func Timeout() Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) error {
		if d := j.Timeout(); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx)
	}
}
