package job_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jobberd/jobber/backoff"
	"github.com/jobberd/jobber/job"
)

// invoke is the plain attempt function used by state machine tests:
// the work unit with no middleware around it.
func invoke(ctx context.Context, j *job.Job) (any, error) {
	return j.Invoke(ctx)
}

// fastDelay keeps retry waits short in tests.
func fastDelay() job.Option {
	return job.WithDelay(backoff.NewConstant(time.Millisecond))
}

func TestNew_GeneratesID(t *testing.T) {
	j, err := job.New(func(_ context.Context) (any, error) { return nil, nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.ID() == "" {
		t.Fatal("expected generated ID")
	}
	if j.Status() != job.StatusNew {
		t.Errorf("status = %q, want %q", j.Status(), job.StatusNew)
	}
	if j.MaxRetries() != 3 {
		t.Errorf("MaxRetries = %d, want default 3", j.MaxRetries())
	}
}

func TestNew_NilWork(t *testing.T) {
	_, err := job.New(nil)
	if !errors.Is(err, job.ErrNilWork) {
		t.Fatalf("err = %v, want ErrNilWork", err)
	}
}

func TestNew_NegativeMaxRetries(t *testing.T) {
	w := func(_ context.Context) (any, error) { return nil, nil }
	_, err := job.New(w, job.WithMaxRetries(-1))
	if !errors.Is(err, job.ErrNegativeRetries) {
		t.Fatalf("err = %v, want ErrNegativeRetries", err)
	}
}

func TestRun_SuccessFirstAttempt(t *testing.T) {
	var calls atomic.Int32
	j, _ := job.New(func(_ context.Context) (any, error) {
		calls.Add(1)
		return "sent", nil
	}, fastDelay())

	out := j.Run(context.Background(), invoke, nil)

	if out.Kind != job.KindDone {
		t.Fatalf("kind = %q, want %q", out.Kind, job.KindDone)
	}
	if out.Value != "sent" {
		t.Errorf("value = %v, want %q", out.Value, "sent")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("work invoked %d times, want 1", got)
	}
	if out.Retries != 0 {
		t.Errorf("retries = %d, want 0", out.Retries)
	}
	if j.Status() != job.StatusDone {
		t.Errorf("status = %q, want %q", j.Status(), job.StatusDone)
	}
}

func TestRun_FailOnceThenSucceed(t *testing.T) {
	var calls atomic.Int32
	j, _ := job.New(func(_ context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("temporary glitch")
		}
		return 42, nil
	}, job.WithMaxRetries(2), fastDelay())

	out := j.Run(context.Background(), invoke, nil)

	if out.Kind != job.KindDone {
		t.Fatalf("kind = %q, want %q", out.Kind, job.KindDone)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("work invoked %d times, want 2", got)
	}
	if out.Retries != 1 {
		t.Errorf("retries = %d, want 1", out.Retries)
	}
	if j.Status() != job.StatusDone {
		t.Errorf("status = %q, want %q", j.Status(), job.StatusDone)
	}
}

func TestRun_ExhaustsRetries(t *testing.T) {
	tests := []struct {
		maxRetries int
		wantCalls  int32
	}{
		{0, 1},
		{1, 2},
		{3, 4},
	}
	for _, tt := range tests {
		var calls atomic.Int32
		j, _ := job.New(func(_ context.Context) (any, error) {
			calls.Add(1)
			return nil, errors.New("always broken")
		}, job.WithMaxRetries(tt.maxRetries), fastDelay())

		out := j.Run(context.Background(), invoke, nil)

		if out.Kind != job.KindFailed {
			t.Fatalf("maxRetries=%d: kind = %q, want %q", tt.maxRetries, out.Kind, job.KindFailed)
		}
		if got := calls.Load(); got != tt.wantCalls {
			t.Errorf("maxRetries=%d: work invoked %d times, want %d", tt.maxRetries, got, tt.wantCalls)
		}
		if out.Retries != tt.maxRetries {
			t.Errorf("maxRetries=%d: retries = %d, want %d", tt.maxRetries, out.Retries, tt.maxRetries)
		}
		if out.Err == nil {
			t.Error("expected last error in outcome")
		}
		if j.Status() != job.StatusFailed {
			t.Errorf("status = %q, want %q", j.Status(), job.StatusFailed)
		}
	}
}

func TestRun_RetriesNeverExceedBudget(t *testing.T) {
	j, _ := job.New(func(_ context.Context) (any, error) {
		return nil, errors.New("broken")
	}, job.WithMaxRetries(2), fastDelay())

	watch := make(chan struct{})
	go func() {
		defer close(watch)
		for {
			select {
			case <-j.Done():
				return
			default:
				if r := j.Retries(); r > j.MaxRetries() {
					t.Errorf("retries = %d exceeds max %d", r, j.MaxRetries())
					return
				}
			}
		}
	}()

	j.Run(context.Background(), invoke, nil)
	j.Settle()
	<-watch
}

func TestRun_UnrecoverableErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	j, _ := job.New(func(_ context.Context) (any, error) {
		calls.Add(1)
		return nil, job.Unrecoverable(errors.New("corrupt input"))
	}, job.WithMaxRetries(5), fastDelay())

	out := j.Run(context.Background(), invoke, nil)

	if out.Kind != job.KindCrashed {
		t.Fatalf("kind = %q, want %q", out.Kind, job.KindCrashed)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("work invoked %d times, want 1", got)
	}
	if j.Status() != job.StatusFailed {
		t.Errorf("status = %q, want %q", j.Status(), job.StatusFailed)
	}
}

func TestRun_CancelDuringRetryDelay(t *testing.T) {
	var calls atomic.Int32
	j, _ := job.New(func(_ context.Context) (any, error) {
		calls.Add(1)
		return nil, errors.New("broken")
	}, job.WithMaxRetries(3), job.WithDelay(backoff.NewConstant(time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	out := j.Run(ctx, invoke, nil)

	if out.Kind != job.KindCancelled {
		t.Fatalf("kind = %q, want %q", out.Kind, job.KindCancelled)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("work invoked %d times, want 1", got)
	}
}

func TestRun_TerminalJobNeverRunsAgain(t *testing.T) {
	var calls atomic.Int32
	j, _ := job.New(func(_ context.Context) (any, error) {
		calls.Add(1)
		return nil, nil
	}, fastDelay())

	first := j.Run(context.Background(), invoke, nil)
	second := j.Run(context.Background(), invoke, nil)

	if got := calls.Load(); got != 1 {
		t.Errorf("work invoked %d times after double Run, want 1", got)
	}
	if second.Kind != first.Kind {
		t.Errorf("second Run kind = %q, want %q", second.Kind, first.Kind)
	}
}

func TestRun_NotifierSeesEachRetry(t *testing.T) {
	var notes []int
	n := notifierFunc(func(_ context.Context, _ *job.Job, attempt int, _ time.Time) {
		notes = append(notes, attempt)
	})

	j, _ := job.New(func(_ context.Context) (any, error) {
		return nil, errors.New("broken")
	}, job.WithMaxRetries(2), fastDelay())

	j.Run(context.Background(), invoke, n)

	if len(notes) != 2 {
		t.Fatalf("notifier called %d times, want 2", len(notes))
	}
	for i, attempt := range notes {
		if attempt != i+1 {
			t.Errorf("notes[%d] = %d, want %d", i, attempt, i+1)
		}
	}
}

type notifierFunc func(ctx context.Context, j *job.Job, attempt int, next time.Time)

func (f notifierFunc) JobRetrying(ctx context.Context, j *job.Job, attempt int, next time.Time) {
	f(ctx, j, attempt, next)
}

func TestOutcome_UnavailableWhileLive(t *testing.T) {
	j, _ := job.New(func(_ context.Context) (any, error) { return nil, nil })
	if _, ok := j.Outcome(); ok {
		t.Fatal("expected no outcome before Run")
	}

	j.Run(context.Background(), invoke, nil)
	out, ok := j.Outcome()
	if !ok {
		t.Fatal("expected outcome after Run")
	}
	if out.FinishedAt.IsZero() {
		t.Error("expected FinishedAt to be set")
	}
}

func TestUnrecoverable(t *testing.T) {
	base := errors.New("boom")
	wrapped := job.Unrecoverable(base)

	if !job.IsUnrecoverable(wrapped) {
		t.Error("expected wrapped error to be unrecoverable")
	}
	if !errors.Is(wrapped, base) {
		t.Error("expected errors.Is to see through Unrecoverable")
	}
	if job.IsUnrecoverable(base) {
		t.Error("plain error should not be unrecoverable")
	}
	if job.Unrecoverable(nil) != nil {
		t.Error("Unrecoverable(nil) should be nil")
	}
	if !job.IsUnrecoverable(&job.PanicError{Value: "x"}) {
		t.Error("PanicError should be unrecoverable")
	}
}
