// Package cache stores compiled savestrings between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys from the inputs of an operation. [DefaultKeyer]
// hashes them with SHA-256 so keys have a fixed length regardless of the
// size of the manifest. [ScopedKeyer] prepends a namespace.
//
// # Errors
//
// Backend failures that are worth another attempt (connection resets,
// timeouts) are wrapped with [Retryable]; [RetryWithBackoff] retries only
// those.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
