package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCompleter struct {
	n     int
	err   error
	calls int
	batch int
}

func (f *fakeCompleter) CompleteElapsed(_ context.Context, _ time.Time, batch int) (int, error) {
	f.calls++
	f.batch = batch
	return f.n, f.err
}

func TestRunCompletion(t *testing.T) {
	c := &fakeCompleter{n: 3}
	if got := RunCompletion(context.Background(), c, time.Now()); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if c.batch != CompletionBatch {
		t.Fatalf("expected batch %d, got %d", CompletionBatch, c.batch)
	}

	failing := &fakeCompleter{n: 1, err: errors.New("db down")}
	if got := RunCompletion(context.Background(), failing, time.Now()); got != 1 {
		t.Fatalf("partial count should be returned, got %d", got)
	}
}

func TestScheduleCompletionRegistersJob(t *testing.T) {
	s, err := NewScheduler()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer func() { _ = s.Shutdown() }()

	if err := s.ScheduleCompletion(&fakeCompleter{}, time.Hour); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if s.Jobs() != 1 {
		t.Fatalf("expected 1 job, got %d", s.Jobs())
	}
}
