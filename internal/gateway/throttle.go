package gateway

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultThrottleInterval is the minimum spacing between outbound requests
// across all providers.
const DefaultThrottleInterval = 500 * time.Millisecond

// Throttle serializes the effective outbound request rate across every
// provider the gateway talks to. It is an injected, explicitly owned limiter
// rather than package state, so tests construct their own. Concurrent callers
// queue inside rate.Limiter, which does its own locking.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle builds a throttle enforcing the given minimum inter-request
// interval. Non-positive intervals fall back to the default.
func NewThrottle(minInterval time.Duration) *Throttle {
	if minInterval <= 0 {
		minInterval = DefaultThrottleInterval
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the caller may issue a request, or until ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	start := time.Now()
	err := t.limiter.Wait(ctx)
	throttleWaitSeconds.Observe(time.Since(start).Seconds())
	return err
}
