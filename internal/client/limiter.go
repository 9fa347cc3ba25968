package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is the shared admission controller for upstream requests.
// It paces dispatches to one per interval/limit, so no rolling window
// of `interval` ever sees more than `limit` dispatches. Waiters are
// released in arrival order.
type Limiter struct {
	limiter *rate.Limiter
	pending atomic.Int64
	wg      sync.WaitGroup
}

func NewLimiter(limit int, interval time.Duration) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(interval/time.Duration(limit)), 1),
	}
}

// Acquire blocks until the caller may dispatch a request. Every
// successful Acquire must be paired with a Release once the request
// has completed.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.wg.Add(1)
	l.pending.Add(1)
	if err := l.limiter.Wait(ctx); err != nil {
		l.pending.Add(-1)
		l.wg.Done()
		return err
	}
	return nil
}

func (l *Limiter) Release() {
	l.pending.Add(-1)
	l.wg.Done()
}

// Pending reports how many requests are queued or in flight.
func (l *Limiter) Pending() int {
	return int(l.pending.Load())
}

// Drain blocks until all enqueued work has completed.
func (l *Limiter) Drain() {
	l.wg.Wait()
}
