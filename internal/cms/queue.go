package cms

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Scheduler admits read operations before they hit the wire so the
// backend's rate limit is not exceeded. Write traffic never goes
// through a scheduler.
type Scheduler interface {
	Admit(ctx context.Context) error
}

// WindowScheduler admits at most maxOps operations per window,
// first-queued first-admitted.
type WindowScheduler struct {
	limiter *rate.Limiter
}

func NewWindowScheduler(maxOps int, window time.Duration) *WindowScheduler {
	if maxOps < 1 {
		maxOps = 1
	}
	if window <= 0 {
		window = 500 * time.Millisecond
	}
	return &WindowScheduler{
		limiter: rate.NewLimiter(rate.Limit(float64(maxOps)/window.Seconds()), maxOps),
	}
}

func (s *WindowScheduler) Admit(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}

// NoopScheduler admits everything immediately. Used in tests and for
// deployments whose backend has no rate limit.
type NoopScheduler struct{}

func (NoopScheduler) Admit(_ context.Context) error { return nil }
