// internal/limiter/limiter.go
package limiter

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultMaxRequests = 60
	DefaultWindow      = time.Minute
)

// RateLimiter bounds outbound calls to at most maxRequests per sliding window.
// Callers are delayed rather than rejected.
type RateLimiter struct {
	mu          sync.Mutex
	calls       []time.Time
	maxRequests int
	window      time.Duration
	now         func() time.Time
}

// New creates a RateLimiter. Non-positive arguments fall back to 60 calls per minute.
func New(maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateLimiter{
		calls:       make([]time.Time, 0, maxRequests),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Acquire blocks until a call slot is free in the current window and records the call.
// It only fails when ctx is done first.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	for {
		wait := r.reserve()
		if wait <= 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve records a call and returns 0 if there is room, otherwise it returns
// how long until the oldest call leaves the window.
func (r *RateLimiter) reserve() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	expired := 0
	for expired < len(r.calls) && !r.calls[expired].After(cutoff) {
		expired++
	}
	r.calls = append(r.calls[:0], r.calls[expired:]...)

	if len(r.calls) < r.maxRequests {
		r.calls = append(r.calls, now)
		return 0
	}
	return r.calls[0].Add(r.window).Sub(now)
}

// inFlight returns how many calls are currently counted against the window.
func (r *RateLimiter) inFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.window)
	n := 0
	for _, t := range r.calls {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}
