package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the key/value contract the query layer consumes. Implementations
// must be safe for concurrent use and must stop returning an entry once its
// TTL has elapsed. Entries are only removed by expiry.
type Store interface {
	// Get returns the entry for key, or ErrCacheMiss.
	Get(ctx context.Context, key Key) (*Entry, error)

	// Set stores entry under key for ttl, replacing any existing entry.
	Set(ctx context.Context, key Key, entry *Entry, ttl time.Duration) error
}

var (
	_ Store = (*Manager)(nil)
	_ Store = (*MemoryStore)(nil)
)
