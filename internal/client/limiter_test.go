package client

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterRollingWindowCeiling(t *testing.T) {
	const (
		limit    = 5
		interval = 100 * time.Millisecond
		calls    = 20
	)

	l := NewLimiter(limit, interval)

	var mu sync.Mutex
	var dispatched []time.Time

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.Acquire(context.Background()))
			mu.Lock()
			dispatched = append(dispatched, time.Now())
			mu.Unlock()
			l.Release()
		}()
	}
	wg.Wait()

	require.Len(t, dispatched, calls)
	sort.Slice(dispatched, func(i, j int) bool { return dispatched[i].Before(dispatched[j]) })

	// No rolling window of `interval` may contain more than `limit`
	// dispatches: the (i+limit)-th dispatch must be at least a full
	// interval after the i-th. Small allowance for timestamping skew.
	for i := 0; i+limit < len(dispatched); i++ {
		window := dispatched[i+limit].Sub(dispatched[i])
		assert.GreaterOrEqual(t, window, interval-5*time.Millisecond,
			"dispatches %d..%d packed into %v", i, i+limit, window)
	}
}

func TestLimiterPendingAndDrain(t *testing.T) {
	l := NewLimiter(2, 20*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.Acquire(context.Background()))
			time.Sleep(time.Millisecond)
			l.Release()
		}()
	}

	wg.Wait()
	l.Drain()
	assert.Equal(t, 0, l.Pending())
}

func TestLimiterAcquireHonorsContext(t *testing.T) {
	l := NewLimiter(1, time.Hour)

	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := l.Acquire(ctx)
	require.Error(t, err)

	l.Release()
	l.Drain()
	assert.Equal(t, 0, l.Pending())
}
