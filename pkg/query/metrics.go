package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mq_store_queries_total",
		Help: "Total number of data store queries issued on cache miss",
	}, []string{"dataset"})

	storeQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mq_store_query_duration_seconds",
		Help:    "Data store query latency by dataset",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"dataset"})

	singleflightSharedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mq_singleflight_shared_total",
		Help: "Total number of miss results shared between concurrent requests",
	}, []string{"dataset"})
)
