package query

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/market-query-api/pkg/cache"
	"github.com/Sternrassler/market-query-api/pkg/model"
	"github.com/Sternrassler/market-query-api/pkg/store"
)

type options struct {
	ttl          time.Duration
	queryTimeout time.Duration
	now          func() time.Time
}

func defaultOptions() options {
	return options{ttl: DefaultTTL, queryTimeout: DefaultQueryTimeout, now: time.Now}
}

// Option configures an Orchestrator or Service.
type Option func(*options)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithQueryTimeout overrides DefaultQueryTimeout. Non-positive values are
// ignored.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.queryTimeout = d
		}
	}
}

// WithClock sets the time source used to stamp cache entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Service answers the three dataset queries against one cache store.
type Service struct {
	trades   *Orchestrator[model.Trade]
	metadata *Orchestrator[model.Metadata]
	reports  *Orchestrator[model.Report]
}

// NewService wires one orchestrator per dataset. The cache store is shared.
func NewService(c cache.Store, stores store.Collections, logger zerolog.Logger, opts ...Option) *Service {
	logger = logger.With().Str("component", "query").Logger()
	return &Service{
		trades:   NewOrchestrator(DatasetTrades, c, stores.Trades, logger, opts...),
		metadata: NewOrchestrator(DatasetMetadata, c, stores.Metadata, logger, opts...),
		reports:  NewOrchestrator(DatasetReports, c, stores.Reports, logger, opts...),
	}
}

// Trades answers the institutional trades query.
func (s *Service) Trades(ctx context.Context, f TradeFilter) (*Result[model.Trade], error) {
	where, err := f.Chain()
	if err != nil {
		return nil, err
	}
	return s.trades.Run(ctx, f.Key(), where)
}

// Metadata answers the instrument metadata query.
func (s *Service) Metadata(ctx context.Context, f MetadataFilter) (*Result[model.Metadata], error) {
	return s.metadata.Run(ctx, f.Key(), f.Chain())
}

// Reports answers the sector reports query.
func (s *Service) Reports(ctx context.Context, f ReportFilter) (*Result[model.Report], error) {
	return s.reports.Run(ctx, f.Key(), f.Chain())
}
