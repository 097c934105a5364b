package query

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/Sternrassler/market-query-api/pkg/cache"
	"github.com/Sternrassler/market-query-api/pkg/filter"
	"github.com/Sternrassler/market-query-api/pkg/model"
	"github.com/Sternrassler/market-query-api/pkg/param"
)

// Dataset tags. They namespace cache keys and label metrics.
const (
	DatasetTrades   = "institution-trade"
	DatasetMetadata = "metadata"
	DatasetReports  = "reports"
)

// Recognized transaction_type values. Anything else applies no sign filter.
const (
	TransactionPositive = "positive"
	TransactionNegative = "negative"
)

// TradeFilter holds the optional parameters of the trades endpoint.
type TradeFilter struct {
	Name            param.Value
	Symbol          param.Value
	Date            param.Value
	TransactionType param.Value
}

// ParseTradeFilter reads a TradeFilter from query parameters. It fails only
// when date is supplied, non-empty and not a calendar date.
func ParseTradeFilter(q url.Values) (TradeFilter, error) {
	f := TradeFilter{
		Name:            param.Lookup(q, "name"),
		Symbol:          param.Lookup(q, "symbol"),
		Date:            param.Lookup(q, "date"),
		TransactionType: param.Lookup(q, "transaction_type"),
	}
	if _, _, err := f.date(); err != nil {
		return TradeFilter{}, err
	}
	return f, nil
}

// Key returns the cache key; parameter order is name, symbol, date,
// transaction_type.
func (f TradeFilter) Key() cache.Key {
	return cache.Key{
		Dataset: DatasetTrades,
		Values:  []param.Value{f.Name, f.Symbol, f.Date, f.TransactionType},
	}
}

func (f TradeFilter) date() (model.Date, bool, error) {
	s, ok := f.Date.Filled()
	if !ok {
		return model.Date{}, false, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, false, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return d, true, nil
}

// Chain builds the conjunctive predicate for the supplied parameters.
func (f TradeFilter) Chain() (*filter.Chain[model.Trade], error) {
	c := filter.New[model.Trade]()

	if name, ok := f.Name.Filled(); ok {
		probe := map[string]any{"name": name}
		c.Where(filter.Or(
			filter.AnyElement("top_buyers", topBuyers, participantNamed(name), probe),
			filter.AnyElement("top_sellers", topSellers, participantNamed(name), probe),
		))
	}

	if symbol, ok := f.Symbol.Filled(); ok {
		c.Where(filter.ContainsFold("symbol", tradeSymbol, symbol))
	}

	d, ok, err := f.date()
	if err != nil {
		return nil, err
	}
	if ok {
		c.Where(filter.Equal("date", tradeDate, d))
	}

	switch v, _ := f.TransactionType.Get(); v {
	case TransactionPositive:
		c.Where(filter.Compare("net_transaction", netTransaction, filter.GreaterThan, decimal.Zero))
	case TransactionNegative:
		c.Where(filter.Compare("net_transaction", netTransaction, filter.LessThan, decimal.Zero))
	}

	return c, nil
}

func topBuyers(t model.Trade) []model.Participant  { return t.TopBuyers }
func topSellers(t model.Trade) []model.Participant { return t.TopSellers }
func tradeSymbol(t model.Trade) string             { return t.Symbol }
func tradeDate(t model.Trade) model.Date           { return t.Date }
func netTransaction(t model.Trade) decimal.Decimal { return t.NetTransaction }

func participantNamed(name string) func(model.Participant) bool {
	return func(p model.Participant) bool { return p.Name == name }
}

// MetadataFilter holds the optional parameters of the metadata endpoint.
type MetadataFilter struct {
	Sector param.Value
}

// ParseMetadataFilter reads a MetadataFilter from query parameters.
func ParseMetadataFilter(q url.Values) MetadataFilter {
	return MetadataFilter{Sector: param.Lookup(q, "sector")}
}

// Key returns the cache key.
func (f MetadataFilter) Key() cache.Key {
	return cache.Key{Dataset: DatasetMetadata, Values: []param.Value{f.Sector}}
}

// Chain builds the sector predicate when a sector is supplied.
func (f MetadataFilter) Chain() *filter.Chain[model.Metadata] {
	c := filter.New[model.Metadata]()
	if sector, ok := f.Sector.Filled(); ok {
		c.Where(filter.ContainsFold("sector", func(m model.Metadata) string { return m.Sector }, sector))
	}
	return c
}

// ReportFilter holds the optional parameters of the reports endpoint.
type ReportFilter struct {
	SubSector param.Value
}

// ParseReportFilter reads a ReportFilter from query parameters.
func ParseReportFilter(q url.Values) ReportFilter {
	return ReportFilter{SubSector: param.Lookup(q, "sub_sector")}
}

// Key returns the cache key.
func (f ReportFilter) Key() cache.Key {
	return cache.Key{Dataset: DatasetReports, Values: []param.Value{f.SubSector}}
}

// Chain builds the sub-sector predicate when a sub-sector is supplied.
func (f ReportFilter) Chain() *filter.Chain[model.Report] {
	c := filter.New[model.Report]()
	if sub, ok := f.SubSector.Filled(); ok {
		c.Where(filter.ContainsFold("sub_sector", func(r model.Report) string { return r.SubSector }, sub))
	}
	return c
}
