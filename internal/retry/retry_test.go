// internal/retry/retry_test.go
package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "github-portfolio/internal/errors"
)

func fastConfig(maxRetries int) Config {
	return Config{MaxRetries: maxRetries, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestDelay(t *testing.T) {
	base, max := time.Second, 10*time.Second
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}

	for attempt, w := range want {
		assert.Equal(t, w, Delay(attempt, base, max), "attempt %d", attempt)
	}
}

func TestDelay_NonDecreasing(t *testing.T) {
	base, max := 250*time.Millisecond, 7*time.Second
	prev := time.Duration(0)
	for attempt := 0; attempt <= 64; attempt++ {
		d := Delay(attempt, base, max)
		assert.GreaterOrEqual(t, d, prev, "attempt %d", attempt)
		assert.LessOrEqual(t, d, max, "attempt %d", attempt)
		prev = d
	}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		attempts++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	testCases := []struct {
		name             string
		failUntilN       int
		maxRetries       int
		expectedAttempts int
		shouldSucceed    bool
	}{
		{name: "success on second attempt", failUntilN: 2, maxRetries: 3, expectedAttempts: 2, shouldSucceed: true},
		{name: "success on last retry", failUntilN: 4, maxRetries: 3, expectedAttempts: 4, shouldSucceed: true},
		{name: "fail all attempts", failUntilN: 10, maxRetries: 3, expectedAttempts: 4, shouldSucceed: false},
		{name: "no retries", failUntilN: 10, maxRetries: 0, expectedAttempts: 1, shouldSucceed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			attempts := 0
			err := Do(context.Background(), fastConfig(tc.maxRetries), func() error {
				attempts++
				if attempts < tc.failUntilN {
					return &custom_errors.ServerError{Op: "test", StatusCode: 503}
				}
				return nil
			}, nil)

			if tc.shouldSucceed {
				assert.NoError(t, err)
			} else {
				var serverErr *custom_errors.ServerError
				assert.ErrorAs(t, err, &serverErr, "last error is propagated on exhaustion")
			}
			assert.Equal(t, tc.expectedAttempts, attempts)
		})
	}
}

func TestDo_BackoffSequence(t *testing.T) {
	cfg := Config{MaxRetries: 4, BaseDelay: 2 * time.Millisecond, MaxDelay: 8 * time.Millisecond}
	var waits []time.Duration

	err := Do(context.Background(), cfg, func() error {
		return errors.New("boom")
	}, func(attempt int, err error, next time.Duration) {
		waits = append(waits, next)
	})

	require.Error(t, err)
	require.Len(t, waits, 4)
	for attempt, got := range waits {
		want := Delay(attempt, cfg.BaseDelay, cfg.MaxDelay)
		assert.Equal(t, want, got.Round(time.Millisecond), "attempt %d", attempt)
	}
}

func TestDo_NotFoundIsNotRetried(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		attempts++
		return &custom_errors.NotFoundError{Op: "readme"}
	}, nil)

	var nf *custom_errors.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxRetries: 5, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Do(ctx, cfg, func() error {
		return errors.New("temporary failure")
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDo_NilFunction(t *testing.T) {
	err := Do(context.Background(), DefaultConfig(), nil, nil)
	assert.EqualError(t, err, "retry: function cannot be nil")
}
