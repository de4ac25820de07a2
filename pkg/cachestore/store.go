// Package cachestore provides the key-value store adapter behind the
// storefront's read-through caches.
package cachestore

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Store.Get when a key is absent or expired.
var ErrNotFound = errors.New("cache key not found")

// Store is the contract for an underlying key-value store. Implementations
// may fail; containment of those failures is the Adapter's job, not the
// Store's.
type Store interface {
	// Get retrieves the raw value for a key. A missing or expired key
	// returns ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value under a key with an expiry. A ttl of zero means
	// no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys. Deleting an absent key is not an error.
	Delete(ctx context.Context, keys ...string) error
	// Keys returns all stored keys matching a glob-style pattern,
	// e.g. "brands:*".
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Closer releases the store's underlying connections.
	io.Closer
}
