// Package fixtures holds a small sample dataset for local runs, examples and
// tests.
package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sternrassler/market-query-api/pkg/model"
	"github.com/Sternrassler/market-query-api/pkg/store"
	"github.com/Sternrassler/market-query-api/pkg/store/memory"
)

// Inserter is implemented by the writable collections.
type Inserter[T any] interface {
	Insert(ctx context.Context, recs ...T) error
}

func date(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Trades returns the sample institutional trades.
func Trades() []model.Trade {
	return []model.Trade{
		{
			Symbol:         "AAA",
			Date:           date("2024-01-02"),
			NetTransaction: dec("5"),
			TopBuyers:      []model.Participant{{Name: "X", Volume: dec("7")}},
			TopSellers:     []model.Participant{},
		},
		{
			Symbol:         "BBB",
			Date:           date("2024-01-02"),
			NetTransaction: dec("-3"),
			TopBuyers:      []model.Participant{},
			TopSellers:     []model.Participant{{Name: "X", Volume: dec("3")}},
		},
		{
			Symbol:         "BBCA",
			Date:           date("2024-01-03"),
			NetTransaction: dec("0"),
			TopBuyers:      []model.Participant{{Name: "Acme Capital", Volume: dec("120.5")}},
			TopSellers:     []model.Participant{{Name: "Northwind", Volume: dec("120.5")}},
		},
	}
}

// Metadata returns the sample instrument metadata.
func Metadata() []model.Metadata {
	listed := date("2015-06-01")
	return []model.Metadata{
		{Symbol: "AAA", Sector: "Clean Energy Corp", Name: "Alpha Power", SubSector: "Renewables", Industry: "Utilities", ListedOn: &listed},
		{Symbol: "BBB", Sector: "Financials", Name: "Beta Bank", SubSector: "Banking", Industry: "Banks"},
		{Symbol: "BBCA", Sector: "Financials", Name: "Bank Central", SubSector: "Banking", Industry: "Banks"},
	}
}

// Reports returns the sample sector reports.
func Reports() []model.Report {
	published := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	return []model.Report{
		{SubSector: "Banking", Title: "Credit growth outlook", Period: "2024Q1", Summary: "Loan books expanded.", PublishedAt: &published},
		{SubSector: "Renewables", Title: "Capacity additions", Period: "2024Q1", Summary: "Solar led new capacity."},
	}
}

// Collections returns in-memory collections holding the sample dataset.
func Collections() store.Collections {
	return store.Collections{
		Trades:   memory.NewCollection(Trades()...),
		Metadata: memory.NewCollection(Metadata()...),
		Reports:  memory.NewCollection(Reports()...),
	}
}

// Seed writes the sample dataset through the given collections.
func Seed(ctx context.Context, trades Inserter[model.Trade], metadata Inserter[model.Metadata], reports Inserter[model.Report]) error {
	if err := trades.Insert(ctx, Trades()...); err != nil {
		return fmt.Errorf("seed trades: %w", err)
	}
	if err := metadata.Insert(ctx, Metadata()...); err != nil {
		return fmt.Errorf("seed metadata: %w", err)
	}
	if err := reports.Insert(ctx, Reports()...); err != nil {
		return fmt.Errorf("seed reports: %w", err)
	}
	return nil
}
