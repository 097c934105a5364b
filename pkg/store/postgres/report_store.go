package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/model"
	"github.com/Sternrassler/market-query-api/pkg/store"
)

// ReportStore implements store.Collection[model.Report] using PostgreSQL.
type ReportStore struct {
	pool *Pool
}

// NewReportStore creates a new ReportStore.
func NewReportStore(pool *Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

// Compile-time interface check.
var _ store.Collection[model.Report] = (*ReportStore)(nil)

// Find returns reports matching where, ordered by id.
func (s *ReportStore) Find(ctx context.Context, where *filter.Chain[model.Report]) ([]model.Report, error) {
	query := `
		SELECT sub_sector, title, period, summary, published_at
		FROM reports`

	rows, err := find(ctx, s.pool, query, where, scanReport)
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	return rows, nil
}

// Insert adds reports.
func (s *ReportStore) Insert(ctx context.Context, recs ...model.Report) error {
	query := `
		INSERT INTO reports (
			sub_sector, title, period, summary, published_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	err := insertBatch(ctx, s.pool, query, recs, func(r model.Report) []any {
		return []any{r.SubSector, r.Title, r.Period, r.Summary, r.PublishedAt}
	})
	if err != nil {
		return fmt.Errorf("insert reports: %w", err)
	}
	return nil
}

// scanReport scans a single row into a Report.
func scanReport(row pgx.Row) (model.Report, error) {
	var r model.Report

	err := row.Scan(
		&r.SubSector,
		&r.Title,
		&r.Period,
		&r.Summary,
		&r.PublishedAt,
	)
	if err != nil {
		return model.Report{}, err
	}

	return r, nil
}
