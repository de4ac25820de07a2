package cachestore

import (
	"context"
	"path"
	"sync"
	"time"
)

// memoryEntry pairs a stored value with its expiry deadline. A zero deadline
// means the entry never expires.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is a thread-safe, in-memory Store implementation with TTL
// support. It is intended for local development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	// now is injectable so tests can simulate TTL expiry without sleeping.
	now func() time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// SetClock replaces the store's time source. Tests use this to advance time
// past entry deadlines.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get retrieves the raw value for a key. Expired entries are removed lazily.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.data, key)
		return nil, ErrNotFound
	}
	return entry.value, nil
}

// Set stores a value under a key with the given expiry.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = entry
	return nil
}

// Delete removes keys.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Keys returns all live keys matching a glob pattern. Cache keys contain no
// path separators, so path.Match implements the same glob dialect Redis uses
// for its patterns.
func (s *MemoryStore) Keys(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []string
	for key, entry := range s.data {
		if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
			delete(s.data, key)
			continue
		}
		if ok, err := path.Match(pattern, key); err == nil && ok {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

// Close is a no-op for the in-memory implementation.
func (s *MemoryStore) Close() error {
	return nil
}
