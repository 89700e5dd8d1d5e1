// Package cache stores generalization results between runs.
//
// A [Cache] maps string keys to byte payloads with an optional TTL. Keys
// come from a [Keyer], which hashes everything a result depends on: the
// input bytes, the feature class, the scale and the resolved thresholds.
// Two runs that would compute the same output therefore share one entry.
//
// [NullCache] disables caching; [FileCache] persists entries under a
// directory and is what the command-line tool uses.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. A generalized result depends only on its key, so
// the TTLs bound disk use rather than staleness.
const (
	TTLResult  = 7 * 24 * time.Hour
	TTLNetwork = 24 * time.Hour
)

// Cache is a key/value store for serialized results.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
