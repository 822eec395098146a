package port

import (
	"context"
	"time"
)

type CacheRepository interface {
	// Get returns the cached value and whether it was present. A missing key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set replaces the value stored under key. A zero ttl keeps the entry until deleted.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes every given key in one round trip; absent keys are ignored
	Delete(ctx context.Context, keys ...string) error

	// SetIfAbsent sets a marker key for idempotency checks, returns false if it already exists
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
