package events

import (
	"context"
	"time"

	"travelbook/internal/utils"

	"github.com/sony/gobreaker"
)

// BreakerPublisher stops calling Next after repeated failures and retries
// after the breaker timeout.
type BreakerPublisher struct {
	Next Publisher
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerPublisher(name string, next Publisher) *BreakerPublisher {
	return &BreakerPublisher{Next: next, cb: CircuitBreaker(name)}
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		Interval:    0,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			utils.LogEvent("", "events", "breaker", "circuit "+name+" changed from "+from.String()+" to "+to.String())
		},
	})
}

func (p *BreakerPublisher) Publish(ctx context.Context, e Event) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.Next.Publish(ctx, e)
	})
	return err
}

// State exposes the breaker state for health output.
func (p *BreakerPublisher) State() string {
	return p.cb.State().String()
}
