package notify

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval spaces individual notifications so the host does not
// block rapid successive channel opens.
const DefaultInterval = 500 * time.Millisecond

// Throttle runs the items of one job with a fixed wait after each item
// returns and before the next one starts.
type Throttle struct {
	limit   rate.Limit
	limiter *rate.Limiter
}

// NewThrottle creates a throttle that waits interval after each item. The
// first item runs immediately.
func NewThrottle(interval time.Duration) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{limit: limit, limiter: rate.NewLimiter(limit, 1)}
}

// Run calls work for items 0..n-1. stopped is checked before and after each
// wait; once it reports true, or ctx ends, no further item starts and Run
// returns the number of items completed with ErrDispatchCancelled.
func (t *Throttle) Run(ctx context.Context, n int, stopped func() bool, work func(i int)) (int, error) {
	for i := range n {
		if stopped() {
			return i, ErrDispatchCancelled
		}
		if err := t.limiter.Wait(ctx); err != nil {
			return i, fmt.Errorf("%w: %w", ErrDispatchCancelled, err)
		}
		if stopped() {
			return i, ErrDispatchCancelled
		}
		work(i)
		t.restart(time.Now())
	}
	return n, nil
}

// restart empties the bucket at now, so a slow item is still followed by a
// full interval.
func (t *Throttle) restart(now time.Time) {
	t.limiter = rate.NewLimiter(t.limit, 1)
	t.limiter.ReserveN(now, 1)
}
