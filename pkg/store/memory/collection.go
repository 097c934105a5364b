// Package memory provides in-process dataset collections for tests and local runs.
package memory

import (
	"context"
	"sync"

	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/store"
)

// Collection is an in-memory implementation of store.Collection.
// Records are returned in insertion order.
type Collection[T any] struct {
	mu      sync.RWMutex
	records []T
}

// NewCollection creates a collection holding recs.
func NewCollection[T any](recs ...T) *Collection[T] {
	c := &Collection[T]{}
	c.records = append(c.records, recs...)
	return c
}

// Compile-time interface check.
var _ store.Collection[struct{}] = (*Collection[struct{}])(nil)

// Insert appends records.
func (c *Collection[T]) Insert(_ context.Context, recs ...T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, recs...)
	return nil
}

// Find returns the records matching where.
func (c *Collection[T]) Find(ctx context.Context, where *filter.Chain[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return where.Apply(c.records), nil
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
