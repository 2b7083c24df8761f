package otp

import (
	"context"
	"time"
)

// Compare is the outcome of Store.CompareAndDelete.
type Compare int

const (
	// Missing means no code is stored or it has expired.
	Missing Compare = iota
	// Match means the code matched and was deleted.
	Match
	// Mismatch means a different code is stored. It is kept.
	Mismatch
)

// Store keeps codes with a TTL. Implementations must make
// CompareAndDelete atomic.
type Store interface {
	// Set stores code under key, replacing any previous code and resetting
	// the attempt counter.
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	// Get returns the stored code.
	Get(ctx context.Context, key string) (string, bool, error)
	// CompareAndDelete deletes the code if it equals code.
	CompareAndDelete(ctx context.Context, key, code string) (Compare, error)
	// Delete removes the code and its attempt counter.
	Delete(ctx context.Context, key string) error
	// IncrAttempts increments the failed attempt counter of key.
	IncrAttempts(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
