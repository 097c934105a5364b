// Package cache provides the short-lived result cache in front of the query
// API, with a Redis backend and an in-process backend.
//
// Features:
//
// - Deterministic cache keys from a dataset tag and optional parameters
// - Absent parameters rendered with a token no supplied value can produce
// - Fixed TTL per write, expiry enforced by the backend
// - Materialized JSON snapshots, never live queries
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.Key{
//		Dataset: "metadata",
//		Values:  []param.Value{param.Of("energy")},
//	}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// Cache miss - query the store, then Set
//	}
//
// # Key Format
//
//	<dataset>:<v1>:<v2>:...:<vN>
//
// A supplied value is written as "=" followed by its query-escaped text, so
// "Acme Corp" becomes "=Acme+Corp" and the empty string becomes "=". An absent
// value is written as "~". Examples:
//
//	metadata:=energy
//	metadata:~
//	institution-trade:=Acme:~:~:=positive
//
// Values are not case-folded or trimmed: "energy" and "Energy" are distinct
// entries.
//
// # Metrics
//
//   - mq_cache_hits_total{layer} - Cache hits
//   - mq_cache_misses_total{layer} - Cache misses
//   - mq_cache_size_bytes{layer} - Bytes written to the cache
//   - mq_cache_errors_total{operation} - Cache operation errors
package cache
