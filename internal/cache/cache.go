// Package cache provides the in-session TTL cache for derived financial
// reads, with a stale-while-revalidate accessor.
package cache

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = 5 * time.Minute

type entry struct {
	data      any
	timestamp time.Time
	ttl       time.Duration
}

// Store is a TTL key/value cache. One instance is built per session and
// passed by reference to consumers; there is no package-level singleton.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
	log     zerolog.Logger

	// refreshDone, when set, is called after a background refresh
	// finishes. Tests use it to wait deterministically.
	refreshDone func(key string, err error)
}

// New returns an empty Store logging through log. A nil clock means the
// system clock.
func New(log zerolog.Logger, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries: make(map[string]entry),
		now:     now,
		log:     log.With().Str("component", "cache").Logger(),
	}
}

// Get returns the cached value for key if it is still within its TTL.
// Expired entries are evicted on access.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.timestamp) > e.ttl {
		delete(s.entries, key)
		return nil, false
	}
	return e.data, true
}

// Set stores value under key, resetting its timestamp. A non-positive ttl
// falls back to DefaultTTL.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	s.entries[key] = entry{data: value, timestamp: s.now(), ttl: ttl}
	s.mu.Unlock()
}

// Invalidate removes the exact key and every key prefixed "pattern:".
// It returns the number of entries removed.
func (s *Store) Invalidate(pattern string) int {
	prefix := pattern + ":"

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if key == pattern || strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// InvalidateRegexp removes every key matching re.
func (s *Store) InvalidateRegexp(re *regexp.Regexp) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if re.MatchString(key) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// Len returns the number of live entries, counting expired ones that have
// not been evicted yet.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// FetchWithRefresh is the stale-while-revalidate accessor.
//
// Fresh (age <= staleThreshold): the cached value is returned as-is.
// Stale but live (staleThreshold < age <= ttl): the cached value is
// returned immediately and a detached refresh repopulates the cache in the
// background; refresh failures are logged, never surfaced.
// Absent or expired: fetch runs synchronously and its error propagates.
func (s *Store) FetchWithRefresh(ctx context.Context, key string, fetch func(context.Context) (any, error), ttl, staleThreshold time.Duration) (any, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	var age time.Duration
	if ok {
		age = s.now().Sub(e.timestamp)
	}
	s.mu.Unlock()

	if ok && age <= ttl {
		if age > staleThreshold {
			go s.refresh(ctx, key, fetch, ttl)
		}
		return e.data, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.Set(key, value, ttl)
	return value, nil
}

// refresh is the detached background refetch. Its error boundary is here:
// failures are logged and the stale entry is left in place.
func (s *Store) refresh(ctx context.Context, key string, fetch func(context.Context) (any, error), ttl time.Duration) {
	value, err := fetch(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("background refresh failed, keeping stale entry")
	} else {
		s.Set(key, value, ttl)
	}
	if s.refreshDone != nil {
		s.refreshDone(key, err)
	}
}

// Get is the typed accessor. It returns the zero value and false when the
// key is absent, expired, or holds a different type.
func Get[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// FetchWithRefresh is the typed stale-while-revalidate accessor.
func FetchWithRefresh[T any](ctx context.Context, s *Store, key string, fetch func(context.Context) (T, error), ttl, staleThreshold time.Duration) (T, error) {
	v, err := s.FetchWithRefresh(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, ttl, staleThreshold)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
