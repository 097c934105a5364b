// Package postgres implements the dataset collections on PostgreSQL with pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/store"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new Postgres connection pool.
func NewPool(ctx context.Context, dsn string, maxConns int) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// Collections returns the three dataset collections backed by p.
func (p *Pool) Collections() store.Collections {
	return store.Collections{
		Trades:   NewTradeStore(p),
		Metadata: NewMetadataStore(p),
		Reports:  NewReportStore(p),
	}
}

// find runs "base WHERE <chain> ORDER BY id" and scans every row.
func find[T any](ctx context.Context, pool *Pool, base string, where *filter.Chain[T], scan func(pgx.Row) (T, error)) ([]T, error) {
	var args filter.Args
	clause, err := where.Clause(&args)
	if err != nil {
		return nil, fmt.Errorf("render filter: %w", err)
	}

	query := base
	if clause != "" {
		query += " WHERE " + clause
	}
	query += " ORDER BY id"

	rows, err := pool.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}

// insertBatch queues one insert per record and executes them in one round trip.
func insertBatch[T any](ctx context.Context, pool *Pool, query string, recs []T, args func(T) []any) error {
	if len(recs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range recs {
		batch.Queue(query, args(r)...)
	}

	if err := pool.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return nil
}
