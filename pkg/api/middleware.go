package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/market-query-api/pkg/auth"
)

const (
	outcomeKey = "api.cache_outcome"
	sharedKey  = "api.cache_shared"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mq_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mq_http_request_duration_seconds",
		Help:    "HTTP request duration by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// observe records metrics and an access log line for every request.
func observe(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		event := logger.Info()
		if status >= 500 {
			event = logger.Warn()
		}
		if route == "/health" || route == "/metrics" {
			event = logger.Debug()
		}

		if who, ok := auth.PrincipalFrom(c); ok {
			event = event.Str("principal", who)
		}

		event.
			Str("method", c.Request.Method).
			Str("route", route).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("duration", elapsed).
			Str("cache", c.GetString(outcomeKey)).
			Bool("shared", c.GetBool(sharedKey)).
			Msg("Request handled")
	}
}
