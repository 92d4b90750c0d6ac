package gateway

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent callers must depart with at least the configured spacing between
// them, measured from actual dispatch timestamps.
func TestThrottleSpacing(t *testing.T) {
	const interval = 30 * time.Millisecond
	const callers = 4

	th := NewThrottle(interval)
	var mu sync.Mutex
	var departures []time.Time

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, th.Wait(context.Background()))
			mu.Lock()
			departures = append(departures, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, departures, callers)
	sort.Slice(departures, func(i, j int) bool { return departures[i].Before(departures[j]) })

	// Allow a small scheduling tolerance below the nominal interval.
	for i := 1; i < len(departures); i++ {
		gap := departures[i].Sub(departures[i-1])
		assert.GreaterOrEqual(t, gap, interval-5*time.Millisecond,
			"departure %d followed too quickly", i)
	}
}

func TestThrottleCancelledContext(t *testing.T) {
	th := NewThrottle(time.Minute)
	require.NoError(t, th.Wait(context.Background())) // burst token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, th.Wait(ctx))
}
