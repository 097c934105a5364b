// Package store defines the read contract the query layer uses against the
// persistent datasets.
package store

import (
	"context"
	"errors"

	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/model"
)

// ErrInvalidInput is returned when a record fails validation on insert.
var ErrInvalidInput = errors.New("invalid input")

// Collection is a filterable dataset.
type Collection[T any] interface {
	// Find returns the records matching where in the store's default order.
	// A nil or empty chain returns the whole dataset. Zero matches is not an
	// error and yields an empty slice.
	Find(ctx context.Context, where *filter.Chain[T]) ([]T, error)
}

// Collections groups the three datasets served by the API.
type Collections struct {
	Trades   Collection[model.Trade]
	Metadata Collection[model.Metadata]
	Reports  Collection[model.Report]
}
