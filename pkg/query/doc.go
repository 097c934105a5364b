// Package query implements the cached read path for the three datasets.
//
// Each request is answered by an Orchestrator: the filter parameters are
// turned into a cache key, the cache is consulted, and on a miss the dataset
// is filtered through the store, materialized into a JSON snapshot and
// written back with a fixed TTL. Concurrent misses for the same key within
// one process share a single store query.
//
// Usage:
//
//	svc := query.NewService(cache.NewManager(redisClient), pool.Collections(), logger)
//
//	f, err := query.ParseTradeFilter(r.URL.Query())
//	if err != nil {
//	    // bad date
//	}
//	res, err := svc.Trades(ctx, f)
//	// res.Records, res.Hit, res.Expires
package query
