// Package metrics provides centralized Prometheus metrics registry for the query API.
// All metrics are defined in their respective packages (cache, query, api, retry)
// to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the service.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Names lists every metric the service registers.
var Names = []string{
	"mq_cache_hits_total",
	"mq_cache_misses_total",
	"mq_cache_size_bytes",
	"mq_cache_errors_total",
	"mq_store_queries_total",
	"mq_store_query_duration_seconds",
	"mq_singleflight_shared_total",
	"mq_http_requests_total",
	"mq_http_request_duration_seconds",
	"mq_retries_total",
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - mq_cache_hits_total{layer} (Counter): Cache hits by layer (redis, memory)
//   - mq_cache_misses_total{layer} (Counter): Cache misses, including expired entries
//   - mq_cache_size_bytes{layer} (Counter): Bytes written to the cache
//   - mq_cache_errors_total{operation} (Counter): Cache operation errors (get, set)
//
// Query Metrics (pkg/query):
//   - mq_store_queries_total{dataset} (Counter): Store queries issued on cache miss
//   - mq_store_query_duration_seconds{dataset} (Histogram): Store query latency
//   - mq_singleflight_shared_total{dataset} (Counter): Miss results shared with concurrent requests
//
// Request Metrics (pkg/api):
//   - mq_http_requests_total{route, status} (Counter): Requests by route and HTTP status
//   - mq_http_request_duration_seconds{route} (Histogram): Request duration by route
//
// Startup Metrics (pkg/retry):
//   - mq_retries_total{operation} (Counter): Retry attempts while connecting to dependencies
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(mq_cache_hits_total[5m])) /
//   (sum(rate(mq_cache_hits_total[5m])) + sum(rate(mq_cache_misses_total[5m])))
//
//   # Store load per dataset
//   sum by (dataset) (rate(mq_store_queries_total[5m]))
//
//   # Server error rate
//   sum(rate(mq_http_requests_total{status=~"5.."}[5m])) / sum(rate(mq_http_requests_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, sum by (le, route) (rate(mq_http_request_duration_seconds_bucket[5m])))
