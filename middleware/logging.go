package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/jobberd/jobber/job"
)

// Logging returns middleware that logs the start and result of every
// execution attempt.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, j *job.Job, next Handler) error {
		logger.Info("job executing",
			slog.String("job_id", j.ID()),
			slog.String("job_type", j.Type()),
			slog.Int("retries", j.Retries()),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		if err != nil {
			logger.Warn("job attempt failed",
				slog.String("job_id", j.ID()),
				slog.String("job_type", j.Type()),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		} else {
			logger.Info("job attempt succeeded",
				slog.String("job_id", j.ID()),
				slog.String("job_type", j.Type()),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
