package query

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Sternrassler/market-query-api/pkg/cache"
	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/store"
)

const (
	// DefaultTTL is how long a result snapshot stays in the cache.
	DefaultTTL = 60 * time.Second

	// DefaultQueryTimeout bounds a store query shared by concurrent misses.
	DefaultQueryTimeout = 30 * time.Second
)

// Result is the answer to one query.
type Result[T any] struct {
	// Records is the caller's own copy of the snapshot, never nil.
	Records []T

	// Hit is true when the snapshot came from the cache.
	Hit bool

	// Shared is true when the snapshot was computed by a concurrent request
	// for the same key.
	Shared bool

	CachedAt time.Time
	Expires  time.Time
}

// Orchestrator answers queries for one dataset using get-or-compute-and-populate.
type Orchestrator[T any] struct {
	dataset string
	cache   cache.Store
	coll    store.Collection[T]
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  zerolog.Logger
	group   singleflight.Group
}

// NewOrchestrator creates an Orchestrator for dataset.
func NewOrchestrator[T any](dataset string, c cache.Store, coll store.Collection[T], logger zerolog.Logger, opts ...Option) *Orchestrator[T] {
	if c == nil {
		panic("cache store cannot be nil")
	}
	if coll == nil {
		panic("collection cannot be nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Orchestrator[T]{
		dataset: dataset,
		cache:   c,
		coll:    coll,
		ttl:     o.ttl,
		timeout: o.queryTimeout,
		now:     o.now,
		logger:  logger.With().Str("dataset", dataset).Logger(),
	}
}

// Run returns the records matching where, from the cache entry under key
// when one is live and from the store otherwise.
//
// Concurrent misses for the same key share one store query. The shared
// query outlives any single caller and is bounded by the query timeout;
// each caller stops waiting when its own ctx is done.
func (o *Orchestrator[T]) Run(ctx context.Context, key cache.Key, where *filter.Chain[T]) (*Result[T], error) {
	k := key.String()

	entry, err := o.cache.Get(ctx, key)
	switch {
	case err == nil:
		o.logger.Debug().
			Str("key", k).
			Bool("cache_hit", true).
			Int("count", entry.Count).
			Dur("ttl", entry.TTLAt(o.now())).
			Msg("Serving cached result")
		return o.result(entry, true, false)
	case errors.Is(err, cache.ErrInvalidEntry):
		o.logger.Warn().Err(err).Str("key", k).Msg("Discarding unreadable cache entry")
	case !errors.Is(err, cache.ErrCacheMiss):
		return nil, o.fail(OpCacheGet, err)
	}

	ch := o.group.DoChan(k, func() (any, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
		defer cancel()
		return o.populate(qctx, key, where)
	})

	select {
	case <-ctx.Done():
		return nil, o.fail(OpFind, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		if r.Shared {
			singleflightSharedTotal.WithLabelValues(o.dataset).Inc()
		}
		return o.result(r.Val.(*cache.Entry), false, r.Shared)
	}
}

// populate queries the store, snapshots the records and writes the cache.
func (o *Orchestrator[T]) populate(ctx context.Context, key cache.Key, where *filter.Chain[T]) (*cache.Entry, error) {
	start := time.Now()
	recs, err := o.coll.Find(ctx, where)
	storeQueriesTotal.WithLabelValues(o.dataset).Inc()
	storeQueryDuration.WithLabelValues(o.dataset).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, o.fail(OpFind, err)
	}
	if recs == nil {
		recs = []T{}
	}

	data, err := json.Marshal(recs)
	if err != nil {
		return nil, o.fail(OpEncode, err)
	}

	now := o.now()
	entry := &cache.Entry{
		Data:     data,
		Count:    len(recs),
		CachedAt: now,
		Expires:  now.Add(o.ttl),
	}

	if err := o.cache.Set(ctx, key, entry, o.ttl); err != nil {
		return nil, o.fail(OpCacheSet, err)
	}

	o.logger.Debug().
		Str("key", key.String()).
		Bool("cache_hit", false).
		Int("count", entry.Count).
		Dur("ttl", o.ttl).
		Msg("Queried store and cached result")

	return entry, nil
}

// result decodes a fresh copy of the snapshot for the caller.
func (o *Orchestrator[T]) result(entry *cache.Entry, hit, shared bool) (*Result[T], error) {
	recs := make([]T, 0, entry.Count)
	if err := json.Unmarshal(entry.Data, &recs); err != nil {
		return nil, o.fail(OpDecode, err)
	}
	if recs == nil {
		recs = []T{}
	}

	return &Result[T]{
		Records:  recs,
		Hit:      hit,
		Shared:   shared,
		CachedAt: entry.CachedAt,
		Expires:  entry.Expires,
	}, nil
}

func (o *Orchestrator[T]) fail(op Op, err error) error {
	return &Error{Dataset: o.dataset, Op: op, Err: err}
}
