// Package cache provides the process-wide TTL store that backs every
// derived artifact: transcripts, chunk sets, ingestion status, summaries.
// Values are treated as immutable once written; writers replace entries
// wholesale, never mutate them in place.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is a thread-safe key/value store with per-entry expiry. Expiry is
// lazy: a Get on an expired key removes it and reports absent. The optional
// janitor sweep only exists for memory hygiene.
type Store struct {
	inner *gocache.Cache

	// mu orders Get's miss-then-delete against Set, so the eager removal
	// of an expired entry can never erase a value written in between.
	mu sync.Mutex
}

// New creates a Store. defaultTTL applies when Set is called with ttl <= 0;
// cleanupInterval <= 0 disables the background sweep.
func New(defaultTTL, cleanupInterval time.Duration) *Store {
	return &Store{inner: gocache.New(defaultTTL, cleanupInterval)}
}

// Set stores value under key with an absolute expiry of now+ttl.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.inner.Set(key, value, ttl)
	s.mu.Unlock()
}

// Get returns the value for key, or absent if the key was never set or its
// TTL has elapsed. An expired entry is deleted on access.
func (s *Store) Get(key string) (any, bool) {
	if v, ok := s.inner.Get(key); ok {
		return v, true
	}

	// The underlying cache leaves expired entries in place until the
	// janitor runs; remove eagerly so Exists is false immediately. Re-check
	// under the lock: a Set may have replaced the expired entry since the
	// miss, and that fresh value must survive.
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.inner.Get(key); ok {
		return v, true
	}
	s.inner.Delete(key)
	return nil, false
}

// Exists reports whether key holds an unexpired value.
func (s *Store) Exists(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	s.inner.Delete(key)
	s.mu.Unlock()
}

// ItemCount returns the number of entries, expired ones included.
func (s *Store) ItemCount() int {
	return s.inner.ItemCount()
}
