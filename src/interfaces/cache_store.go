package interfaces

import (
	"context"
	"time"
)

// -----------------------------------------------------------------------------
// ICacheStore is a byte-oriented key/value store with per-entry expiry.
// -----------------------------------------------------------------------------

type ICacheStore interface {

	// Get returns the stored value and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// -----------------------------------------------------------------------------

	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// -----------------------------------------------------------------------------

	// Delete removes key if present.
	Delete(ctx context.Context, key string) error

	// -----------------------------------------------------------------------------

	// Close releases the backend.
	Close() error
}
