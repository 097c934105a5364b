// Package api exposes the query service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/market-query-api/pkg/auth"
	"github.com/Sternrassler/market-query-api/pkg/metrics"
	"github.com/Sternrassler/market-query-api/pkg/query"
)

// DefaultRequestTimeout bounds cache and store I/O for one request.
const DefaultRequestTimeout = 30 * time.Second

// Checker reports whether a dependency is usable.
type Checker func(ctx context.Context) error

// Config wires the router.
type Config struct {
	Service        *query.Service
	Verifier       *auth.Verifier
	Logger         zerolog.Logger
	RequestTimeout time.Duration

	// Checks are run by /ready, keyed by dependency name.
	Checks map[string]Checker
}

// NewRouter builds the gin engine serving the dataset endpoints and the
// operational endpoints.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Service == nil {
		panic("query service cannot be nil")
	}
	if cfg.Verifier == nil {
		panic("verifier cannot be nil")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	logger := cfg.Logger.With().Str("component", "api").Logger()

	r := gin.New()
	r.Use(gin.Recovery(), observe(logger))

	r.GET("/health", health)
	r.GET("/ready", ready(cfg.Checks, logger))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := &Handler{
		service: cfg.Service,
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}

	api := r.Group("/", auth.Middleware(cfg.Verifier))
	{
		api.GET("/get-institution-trade", h.InstitutionTrades)
		api.GET("/get-metadata", h.Metadata)
		api.GET("/get-reports", h.Reports)
	}

	return r
}

func health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
