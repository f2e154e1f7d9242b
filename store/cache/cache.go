// Package cache provides the key/value cache store behind the suggestion
// pipeline. Entries carry a TTL after which they are treated as absent.
// Single-key get/set atomicity is all callers may rely on.
package cache

import (
	"context"
	"time"
)

// Cache is the store interface. A missing or expired key is reported through
// the ok flag, not an error; errors are reserved for infrastructure failure.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
