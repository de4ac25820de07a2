package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Adapter is the fail-open façade over a Store. Every operation contains the
// store's failure modes: a read error becomes a miss, a write or delete error
// becomes a logged no-op. A store outage therefore degrades callers to
// "always recompute" rather than failing their requests — the database stays
// the source of truth and the cache stays an optimization.
type Adapter struct {
	store  Store
	logger zerolog.Logger
}

// NewAdapter wraps a Store with the fail-open contract.
func NewAdapter(store Store, logger zerolog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		logger: logger.With().Str("component", "CacheAdapter").Logger(),
	}
}

// Get retrieves and decodes a typed value. It reports false on a miss, a
// store failure, or an undecodable payload — all three are indistinguishable
// to the caller and simply force recomputation.
//
// Typed access is a package-level function because Go methods cannot
// introduce type parameters.
func Get[T any](ctx context.Context, a *Adapter, key string) (T, bool) {
	var zero T
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss.")
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		// Corrupt or drifted payload. Surfacing it as a miss means the next
		// fill overwrites it with the current schema.
		a.logger.Warn().Err(err).Str("key", key).Msg("Cached payload undecodable, treating as miss.")
		return zero, false
	}

	a.logger.Debug().Str("key", key).Msg("Cache hit.")
	return value, true
}

// Set encodes and stores a typed value with an expiry. Failures are logged
// and swallowed so a failed cache write never fails the operation that
// produced the value.
func Set[T any](ctx context.Context, a *Adapter, key string, value T, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode value for caching.")
		return
	}
	if err := a.store.Set(ctx, key, data, ttl); err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed.")
		return
	}
	a.logger.Debug().Str("key", key).Msg("Cached value stored.")
}

// Delete removes keys, swallowing failures.
func (a *Adapter) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := a.store.Delete(ctx, keys...); err != nil {
		a.logger.Warn().Err(err).Strs("keys", keys).Msg("Cache delete failed.")
	}
}

// Keys enumerates keys matching a pattern, returning an empty slice when the
// store is unreachable.
func (a *Adapter) Keys(ctx context.Context, pattern string) []string {
	keys, err := a.store.Keys(ctx, pattern)
	if err != nil {
		a.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache key enumeration failed.")
		return nil
	}
	return keys
}

// Invalidate deletes every key matching a pattern. An empty match set is a
// no-op, which makes repeated invalidation idempotent. An entry that survives
// a failed invalidation is served until its TTL elapses; that bounded
// staleness is the accepted trade for never failing the triggering write.
func (a *Adapter) Invalidate(ctx context.Context, pattern string) {
	keys := a.Keys(ctx, pattern)
	if len(keys) == 0 {
		return
	}
	a.Delete(ctx, keys...)
	a.logger.Debug().Str("pattern", pattern).Int("count", len(keys)).Msg("Invalidated cache keys.")
}
