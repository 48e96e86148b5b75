package cache

import (
	"context"
	"time"
)

// LookupCache stores raw registry lookup payloads keyed by document. Entries
// expire after the TTL supplied at Set time; a miss and an expired entry are
// indistinguishable to callers.
type LookupCache interface {
	// Get returns the cached payload for key, with found=false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the payload under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Close releases any resources held by the cache.
	Close() error
}
