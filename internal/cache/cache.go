// internal/cache/cache.go
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is how long a produced value is served without re-fetching.
	DefaultTTL = 10 * time.Minute
	// DefaultProduceTimeout bounds a shared produce call.
	DefaultProduceTimeout = 2 * time.Minute
)

// Status describes how a Fetch was satisfied.
type Status string

const (
	StatusHit   Status = "hit"
	StatusMiss  Status = "miss"
	StatusStale Status = "stale"
)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Store is a TTL-bound in-memory store keyed by logical request name.
// It holds at most one entry per key.
type Store struct {
	mu             sync.RWMutex
	entries        map[string]entry
	ttl            time.Duration
	produceTimeout time.Duration
	now            func() time.Time
	group          singleflight.Group
}

// New creates a Store. A non-positive ttl uses DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries:        make(map[string]entry),
		ttl:            ttl,
		produceTimeout: DefaultProduceTimeout,
		now:            time.Now,
	}
}

// Invalidate drops the entry for key, if any.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *Store) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) lookup(key string) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

func (s *Store) fresh(key string) (any, bool) {
	e, ok := s.lookup(key)
	if !ok || s.now().Sub(e.fetchedAt) >= s.ttl {
		return nil, false
	}
	return e.value, true
}

func (s *Store) set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, fetchedAt: s.now()}
}

type flight struct {
	value  any
	status Status
}

// Fetch returns the fresh value for key, or runs produce and stores its result.
// When produce fails and a stale value exists, the stale value is returned instead
// of the error. Concurrent misses on the same key share one produce call, which
// runs detached from any single caller's cancellation and is bounded by the
// store's produce timeout. A caller whose ctx ends stops waiting on its own.
func Fetch[T any](ctx context.Context, s *Store, key string, produce func(ctx context.Context) (T, error)) (T, Status, error) {
	var zero T

	if v, ok := s.fresh(key); ok {
		if typed, ok := v.(T); ok {
			return typed, StatusHit, nil
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		if v, ok := s.fresh(key); ok {
			if _, ok := v.(T); ok {
				return flight{value: v, status: StatusHit}, nil
			}
		}

		produceCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.produceTimeout)
		defer cancel()

		v, err := produce(produceCtx)
		if err != nil {
			return nil, err
		}
		s.set(key, v)
		return flight{value: v, status: StatusMiss}, nil
	})

	var (
		res any
		err error
	)
	select {
	case r := <-ch:
		res, err = r.Val, r.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		if e, ok := s.lookup(key); ok {
			if typed, ok := e.value.(T); ok {
				return typed, StatusStale, nil
			}
		}
		return zero, "", err
	}

	f := res.(flight)
	return f.value.(T), f.status, nil
}
