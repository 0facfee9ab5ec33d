package history_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jobberd/jobber/history"
	"github.com/jobberd/jobber/job"
)

func newJob(t *testing.T, opts ...job.Option) *job.Job {
	t.Helper()
	j, err := job.New(func(_ context.Context) (any, error) { return nil, nil }, opts...)
	if err != nil {
		t.Fatalf("job.New error: %v", err)
	}
	return j
}

func TestAdd_And_Get(t *testing.T) {
	a := history.New(10)
	j := newJob(t, job.WithID("rec-1"), job.WithType("import"), job.WithMaxRetries(2))

	a.Add(j, job.Outcome{
		Kind:       job.KindFailed,
		Err:        errors.New("gave up"),
		Retries:    2,
		FinishedAt: time.Now().UTC(),
	})

	rec, ok := a.Get("rec-1")
	if !ok {
		t.Fatal("expected record for rec-1")
	}
	if rec.Kind != job.KindFailed {
		t.Errorf("kind = %q, want %q", rec.Kind, job.KindFailed)
	}
	if rec.Error != "gave up" {
		t.Errorf("error = %q, want %q", rec.Error, "gave up")
	}
	if rec.Retries != 2 || rec.MaxRetries != 2 {
		t.Errorf("retries = %d/%d, want 2/2", rec.Retries, rec.MaxRetries)
	}
	if rec.Type != "import" {
		t.Errorf("type = %q, want %q", rec.Type, "import")
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	a := history.New(10)
	for i := range 3 {
		j := newJob(t, job.WithID(fmt.Sprintf("j-%d", i)))
		a.Add(j, job.Outcome{Kind: job.KindDone})
	}

	got := a.List()
	if len(got) != 3 {
		t.Fatalf("List returned %d records, want 3", len(got))
	}
	want := []string{"j-2", "j-1", "j-0"}
	for i, id := range want {
		if got[i].JobID != id {
			t.Errorf("List[%d].JobID = %q, want %q", i, got[i].JobID, id)
		}
	}
}

func TestListByKind(t *testing.T) {
	a := history.New(10)
	a.Add(newJob(t, job.WithID("ok")), job.Outcome{Kind: job.KindDone})
	a.Add(newJob(t, job.WithID("bad")), job.Outcome{Kind: job.KindFailed})
	a.Add(newJob(t, job.WithID("boom")), job.Outcome{Kind: job.KindCrashed})

	failed := a.ListByKind(job.KindFailed)
	if len(failed) != 1 || failed[0].JobID != "bad" {
		t.Errorf("ListByKind(failed) = %v, want [bad]", failed)
	}
}

func TestBoundedCapacity_DropsOldest(t *testing.T) {
	a := history.New(2)
	a.Add(newJob(t, job.WithID("first")), job.Outcome{Kind: job.KindDone})
	a.Add(newJob(t, job.WithID("second")), job.Outcome{Kind: job.KindDone})
	a.Add(newJob(t, job.WithID("third")), job.Outcome{Kind: job.KindDone})

	if a.Count() != 2 {
		t.Fatalf("Count = %d, want 2", a.Count())
	}
	if _, ok := a.Get("first"); ok {
		t.Error("oldest record should have been dropped")
	}
	if _, ok := a.Get("third"); !ok {
		t.Error("newest record should be present")
	}
}

func TestPurge(t *testing.T) {
	a := history.New(10)
	a.Add(newJob(t), job.Outcome{Kind: job.KindDone})
	a.Purge()

	if a.Count() != 0 {
		t.Errorf("Count = %d after purge, want 0", a.Count())
	}
	if got := a.List(); len(got) != 0 {
		t.Errorf("List returned %d records after purge, want 0", len(got))
	}
}
