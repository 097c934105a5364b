//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/model"
	"github.com/Sternrassler/market-query-api/pkg/store"
	"github.com/Sternrassler/market-query-api/pkg/store/migrations"
)

func day(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedTrades(t *testing.T, s *TradeStore) {
	t.Helper()
	err := s.Insert(context.Background(),
		model.Trade{
			Symbol:         "AAA",
			Date:           day("2024-01-02"),
			NetTransaction: decimal.RequireFromString("100"),
			TopBuyers:      []model.Participant{{Name: "X", Volume: decimal.RequireFromString("60.5")}},
			TopSellers:     []model.Participant{{Name: "Y", Volume: decimal.RequireFromString("10")}},
		},
		model.Trade{
			Symbol:         "BBB",
			Date:           day("2024-01-02"),
			NetTransaction: decimal.RequireFromString("-50"),
			TopSellers:     []model.Participant{{Name: "X", Volume: decimal.RequireFromString("50")}},
		},
		model.Trade{
			Symbol:         "aaab",
			Date:           day("2024-01-03"),
			NetTransaction: decimal.Zero,
		},
	)
	require.NoError(t, err)
}

func symbols(trades []model.Trade) []string {
	out := make([]string, 0, len(trades))
	for _, tr := range trades {
		out = append(out, tr.Symbol)
	}
	return out
}

func TestTradeStore_Find(t *testing.T) {
	pool := setupTestDB(t)
	s := NewTradeStore(pool)
	ctx := context.Background()
	seedTrades(t, s)

	nameX := filter.Or(
		filter.AnyElement("top_buyers", func(tr model.Trade) []model.Participant { return tr.TopBuyers },
			func(p model.Participant) bool { return p.Name == "X" }, map[string]any{"name": "X"}),
		filter.AnyElement("top_sellers", func(tr model.Trade) []model.Participant { return tr.TopSellers },
			func(p model.Participant) bool { return p.Name == "X" }, map[string]any{"name": "X"}),
	)
	symbol := func(tr model.Trade) string { return tr.Symbol }
	net := func(tr model.Trade) decimal.Decimal { return tr.NetTransaction }
	date := func(tr model.Trade) model.Date { return tr.Date }

	tests := []struct {
		name  string
		where *filter.Chain[model.Trade]
		want  []string
	}{
		{"nil chain returns all in id order", nil, []string{"AAA", "BBB", "aaab"}},
		{"symbol contains ignoring case", filter.New[model.Trade]().Where(filter.ContainsFold("symbol", symbol, "aA")), []string{"AAA", "aaab"}},
		{"date equality", filter.New[model.Trade]().Where(filter.Equal("date", date, day("2024-01-03"))), []string{"aaab"}},
		{"positive net excludes zero", filter.New[model.Trade]().Where(filter.Compare("net_transaction", net, filter.GreaterThan, decimal.Zero)), []string{"AAA"}},
		{"negative net excludes zero", filter.New[model.Trade]().Where(filter.Compare("net_transaction", net, filter.LessThan, decimal.Zero)), []string{"BBB"}},
		{"participant in either list", filter.New[model.Trade]().Where(nameX), []string{"AAA", "BBB"}},
		{"combined conjunction", filter.New[model.Trade]().Where(nameX).Where(filter.Compare("net_transaction", net, filter.LessThan, decimal.Zero)), []string{"BBB"}},
		{"no match is empty", filter.New[model.Trade]().Where(filter.ContainsFold("symbol", symbol, "zzz")), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Find(ctx, tt.where)
			require.NoError(t, err)
			assert.Equal(t, tt.want, symbols(got))

			// Postgres and in-memory evaluation agree
			all, err := s.Find(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, symbols(tt.where.Apply(all)))
		})
	}
}

func TestTradeStore_RoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	s := NewTradeStore(pool)
	seedTrades(t, s)

	got, err := s.Find(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, day("2024-01-02"), got[0].Date)
	assert.True(t, got[0].NetTransaction.Equal(decimal.RequireFromString("100")))
	require.Len(t, got[0].TopBuyers, 1)
	assert.Equal(t, "X", got[0].TopBuyers[0].Name)
	assert.True(t, got[0].TopBuyers[0].Volume.Equal(decimal.RequireFromString("60.5")))
	assert.Empty(t, got[2].TopBuyers)
	assert.NotNil(t, got[2].TopBuyers, "empty list should scan as [] not null")
}

func TestTradeStore_InsertValidation(t *testing.T) {
	pool := setupTestDB(t)
	s := NewTradeStore(pool)

	err := s.Insert(context.Background(), model.Trade{Date: day("2024-01-02")})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestMetadataStore_Find(t *testing.T) {
	pool := setupTestDB(t)
	s := NewMetadataStore(pool)
	ctx := context.Background()

	listed := day("2019-07-01")
	require.NoError(t, s.Insert(ctx,
		model.Metadata{Symbol: "AAA", Sector: "Energy", Name: "Alpha", ListedOn: &listed},
		model.Metadata{Symbol: "BBB", Sector: "Finance", Name: "Beta"},
		model.Metadata{Symbol: "CCC", Sector: "energy", Name: "Gamma"},
	))

	sector := func(m model.Metadata) string { return m.Sector }
	got, err := s.Find(ctx, filter.New[model.Metadata]().Where(filter.Equal("sector", sector, "Energy")))
	require.NoError(t, err)
	require.Len(t, got, 1, "sector match is exact")
	assert.Equal(t, "AAA", got[0].Symbol)
	require.NotNil(t, got[0].ListedOn)
	assert.Equal(t, listed, *got[0].ListedOn)

	all, err := s.Find(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Nil(t, all[1].ListedOn)
}

func TestReportStore_Find(t *testing.T) {
	pool := setupTestDB(t)
	s := NewReportStore(pool)
	ctx := context.Background()

	published := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Insert(ctx,
		model.Report{SubSector: "Banking", Title: "Q1", Period: "2024Q1", PublishedAt: ptr(published)},
		model.Report{SubSector: "Insurance", Title: "Q1", Period: "2024Q1"},
		model.Report{SubSector: "Banking", Title: "Q2", Period: "2024Q2"},
	))

	subSector := func(r model.Report) string { return r.SubSector }
	got, err := s.Find(ctx, filter.New[model.Report]().Where(filter.Equal("sub_sector", subSector, "Banking")))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Q1", got[0].Title)
	assert.Equal(t, "Q2", got[1].Title)
	require.NotNil(t, got[0].PublishedAt)
	assert.True(t, published.Equal(*got[0].PublishedAt))

	none, err := s.Find(ctx, filter.New[model.Report]().Where(filter.Equal("sub_sector", subSector, "Mining")))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPool_Collections(t *testing.T) {
	pool := setupTestDB(t)
	c := pool.Collections()

	assert.NotNil(t, c.Trades)
	assert.NotNil(t, c.Metadata)
	assert.NotNil(t, c.Reports)
}

func TestMigrationsUp_LeavesPoolOpen(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	// Already applied; a second run is a no-op and must not close the pool
	require.NoError(t, migrations.Up(ctx, pool.Pool))
	require.NoError(t, migrations.Up(ctx, pool.Pool))

	require.NoError(t, pool.Ping(ctx))

	trades := NewTradeStore(pool)
	seedTrades(t, trades)
	got, err := trades.Find(ctx, filter.New[model.Trade]())
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
