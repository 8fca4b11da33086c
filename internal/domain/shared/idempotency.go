package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that have already been claimed so that a
// replayed request or event is processed at most once within the TTL.
type IdempotencyStore interface {
	// MarkProcessed claims a key with a TTL.
	// Returns true if the key was newly claimed, false if it was already taken.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a key has been claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release drops a claimed key so it can be used again
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
