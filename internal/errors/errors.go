// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrUpstreamUnavailable is returned when the upstream API could not produce a usable dataset.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrMissingUsername is returned when no GitHub account is configured.
var ErrMissingUsername = errors.New("github username is not configured")

// MaxFeaturedProjects is the largest override list an admin may save.
const MaxFeaturedProjects = 6

// RateLimitError is returned when GitHub reports an exhausted rate limit.
type RateLimitError struct {
	Op    string
	Reset time.Time
	Err   error
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return fmt.Sprintf("%s: github rate limit exceeded", e.Op)
	}
	return fmt.Sprintf("%s: github rate limit exceeded, resets at %s", e.Op, e.Reset.Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ServerError is returned for 5xx responses.
type ServerError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: github server error: %d", e.Op, e.StatusCode)
}

func (e *ServerError) Unwrap() error { return e.Err }

// ClientError is returned for 4xx responses other than 404 and rate limiting.
type ClientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: github client error: %d", e.Op, e.StatusCode)
}

func (e *ClientError) Unwrap() error { return e.Err }

// NotFoundError is returned for 404 responses. It is never retried.
type NotFoundError struct {
	Op string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.Op)
}

// NetworkError wraps transport failures and per-attempt timeouts.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TooManyFeaturedError is returned when an override list exceeds MaxFeaturedProjects.
type TooManyFeaturedError struct {
	Count int
}

func (e *TooManyFeaturedError) Error() string {
	return fmt.Sprintf("maximum %d featured projects allowed, got %d", MaxFeaturedProjects, e.Count)
}

// InvalidFeaturedNameError is returned when an override list contains a blank name.
type InvalidFeaturedNameError struct {
	Index int
}

func (e *InvalidFeaturedNameError) Error() string {
	return fmt.Sprintf("featured project at index %d has an empty name", e.Index)
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var nf *NotFoundError
	return !errors.As(err, &nf)
}
