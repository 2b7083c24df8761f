package otp

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	count   int64
	expires time.Time
}

// MemoryStore keeps codes in process memory. Expiry is checked on read.
// It is meant for development and tests.
type MemoryStore struct {
	mu       sync.Mutex
	codes    map[string]memoryEntry
	attempts map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		codes:    make(map[string]memoryEntry),
		attempts: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

// live returns the entry of m[key] unless it expired. Callers hold mu.
func (s *MemoryStore) live(m map[string]memoryEntry, key string) (memoryEntry, bool) {
	e, ok := m[key]
	if !ok {
		return memoryEntry{}, false
	}

	if !s.now().Before(e.expires) {
		delete(m, key)
		return memoryEntry{}, false
	}

	return e, true
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[key] = memoryEntry{value: code, expires: s.now().Add(ttl)}
	delete(s.attempts, key)

	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(s.codes, key)

	return e.value, ok, nil
}

// CompareAndDelete implements Store.
func (s *MemoryStore) CompareAndDelete(_ context.Context, key, code string) (Compare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(s.codes, key)
	if !ok {
		return Missing, nil
	}

	if e.value != code {
		return Mismatch, nil
	}

	delete(s.codes, key)
	delete(s.attempts, key)

	return Match, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.codes, key)
	delete(s.attempts, key)

	return nil
}

// IncrAttempts implements Store.
func (s *MemoryStore) IncrAttempts(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(s.attempts, key)
	if !ok {
		e = memoryEntry{expires: s.now().Add(ttl)}
	}

	e.count++
	s.attempts[key] = e

	return e.count, nil
}
