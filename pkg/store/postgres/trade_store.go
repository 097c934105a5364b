package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/model"
	"github.com/Sternrassler/market-query-api/pkg/store"
)

// TradeStore implements store.Collection[model.Trade] using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ store.Collection[model.Trade] = (*TradeStore)(nil)

// Find returns trades matching where, ordered by id.
func (s *TradeStore) Find(ctx context.Context, where *filter.Chain[model.Trade]) ([]model.Trade, error) {
	query := `
		SELECT symbol, date, net_transaction, top_buyers, top_sellers
		FROM institution_trades`

	trades, err := find(ctx, s.pool, query, where, scanTrade)
	if err != nil {
		return nil, fmt.Errorf("find trades: %w", err)
	}
	return trades, nil
}

// Insert adds trades.
func (s *TradeStore) Insert(ctx context.Context, trades ...model.Trade) error {
	query := `
		INSERT INTO institution_trades (
			symbol, date, net_transaction, top_buyers, top_sellers
		) VALUES ($1, $2, $3, $4, $5)
	`

	for _, t := range trades {
		if t.Symbol == "" || t.Date.IsZero() {
			return store.ErrInvalidInput
		}
	}

	err := insertBatch(ctx, s.pool, query, trades, func(t model.Trade) []any {
		return []any{t.Symbol, t.Date, t.NetTransaction, participants(t.TopBuyers), participants(t.TopSellers)}
	})
	if err != nil {
		return fmt.Errorf("insert trades: %w", err)
	}
	return nil
}

// participants maps nil to an empty list so the column never stores SQL NULL.
func participants(ps []model.Participant) []model.Participant {
	if ps == nil {
		return []model.Participant{}
	}
	return ps
}

// scanTrade scans a single row into a Trade.
func scanTrade(row pgx.Row) (model.Trade, error) {
	var t model.Trade

	err := row.Scan(
		&t.Symbol,
		&t.Date,
		&t.NetTransaction,
		&t.TopBuyers,
		&t.TopSellers,
	)
	if err != nil {
		return model.Trade{}, err
	}

	return t, nil
}
