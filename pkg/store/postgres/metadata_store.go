package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/model"
	"github.com/Sternrassler/market-query-api/pkg/store"
)

// MetadataStore implements store.Collection[model.Metadata] using PostgreSQL.
type MetadataStore struct {
	pool *Pool
}

// NewMetadataStore creates a new MetadataStore.
func NewMetadataStore(pool *Pool) *MetadataStore {
	return &MetadataStore{pool: pool}
}

// Compile-time interface check.
var _ store.Collection[model.Metadata] = (*MetadataStore)(nil)

// Find returns metadata rows matching where, ordered by id.
func (s *MetadataStore) Find(ctx context.Context, where *filter.Chain[model.Metadata]) ([]model.Metadata, error) {
	query := `
		SELECT symbol, sector, name, sub_sector, industry, listed_on
		FROM metadata`

	rows, err := find(ctx, s.pool, query, where, scanMetadata)
	if err != nil {
		return nil, fmt.Errorf("find metadata: %w", err)
	}
	return rows, nil
}

// Insert adds metadata rows.
func (s *MetadataStore) Insert(ctx context.Context, recs ...model.Metadata) error {
	query := `
		INSERT INTO metadata (
			symbol, sector, name, sub_sector, industry, listed_on
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, m := range recs {
		if m.Symbol == "" {
			return store.ErrInvalidInput
		}
	}

	err := insertBatch(ctx, s.pool, query, recs, func(m model.Metadata) []any {
		return []any{m.Symbol, m.Sector, m.Name, m.SubSector, m.Industry, m.ListedOn}
	})
	if err != nil {
		return fmt.Errorf("insert metadata: %w", err)
	}
	return nil
}

// scanMetadata scans a single row into Metadata.
func scanMetadata(row pgx.Row) (model.Metadata, error) {
	var m model.Metadata

	err := row.Scan(
		&m.Symbol,
		&m.Sector,
		&m.Name,
		&m.SubSector,
		&m.Industry,
		&m.ListedOn,
	)
	if err != nil {
		return model.Metadata{}, err
	}

	return m, nil
}
