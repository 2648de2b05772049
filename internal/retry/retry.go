// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	custom_errors "github-portfolio/internal/errors"
)

// Config holds the retry policy for a single logical request.
type Config struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultConfig returns 3 retries, starting at 1s and capped at 10s.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxRetries < 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = d.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	return c
}

// Notify is called after a failed attempt, before sleeping for next.
type Notify func(attempt int, err error, next time.Duration)

// Delay returns the wait after the given zero-based failed attempt:
// min(base * 2^attempt, max).
func Delay(attempt int, base, max time.Duration) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		if d >= max {
			return max
		}
		d *= 2
	}
	if d > max {
		return max
	}
	return d
}

// Do runs fn until it succeeds, returns a non-retryable error, or the retry budget
// is spent. The last error is returned on exhaustion; ctx errors win over it.
func Do(ctx context.Context, cfg Config, fn func() error, notify Notify) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}
	cfg = cfg.withDefaults()

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = cfg.BaseDelay
	eb.RandomizationFactor = 0
	eb.Multiplier = 2
	eb.MaxInterval = cfg.MaxDelay
	eb.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(cfg.MaxRetries)), ctx)

	operation := func() error {
		err := fn()
		if err != nil && !custom_errors.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	attempt := 0
	return backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		if notify != nil {
			notify(attempt, err, next)
		}
		attempt++
	})
}
