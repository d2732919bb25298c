// Package jobs runs periodic maintenance on a gocron scheduler.
package jobs

import (
	"context"
	"fmt"
	"time"

	"travelbook/internal/utils"

	"github.com/go-co-op/gocron/v2"
)

// Completer is the part of the booking service the completion job needs.
type Completer interface {
	CompleteElapsed(ctx context.Context, now time.Time, batch int) (int, error)
}

type Scheduler struct {
	sched gocron.Scheduler
}

func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}
	return &Scheduler{sched: s}, nil
}

// CompletionBatch caps how many bookings one run completes.
const CompletionBatch = 200

// ScheduleCompletion completes elapsed bookings every interval. Runs never
// overlap.
func (s *Scheduler) ScheduleCompletion(c Completer, every time.Duration) error {
	if every <= 0 {
		every = time.Hour
	}
	_, err := s.sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() { RunCompletion(context.Background(), c, time.Now().UTC()) }),
		gocron.WithName("complete-elapsed-bookings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// RunCompletion is one completion pass; split out so it can be called directly.
func RunCompletion(ctx context.Context, c Completer, now time.Time) int {
	n, err := c.CompleteElapsed(ctx, now, CompletionBatch)
	if err != nil {
		utils.LogError("", "jobs", "complete_elapsed", err)
		return n
	}
	if n > 0 {
		utils.LogEvent("", "jobs", "complete_elapsed", fmt.Sprintf("completed=%d", n))
	}
	return n
}

func (s *Scheduler) Jobs() int { return len(s.sched.Jobs()) }

func (s *Scheduler) Start() { s.sched.Start() }

func (s *Scheduler) Shutdown() error { return s.sched.Shutdown() }
