package tools

import (
	"context"

	"github.com/aionysus/dionysus/internal/invest"
	"github.com/aionysus/dionysus/internal/memory"
	"github.com/aionysus/dionysus/internal/winestore"
)

// fakeCatalog is an in-memory Catalog for tests.
type fakeCatalog struct {
	wines      []winestore.Wine
	detail     *winestore.WineDetail
	regions    []winestore.NameCount
	types      []winestore.NameCount
	investment []winestore.InvestmentWine
	trend      *winestore.PriceTrend
	overview   *winestore.Overview
	candidates []invest.Candidate
	err        error
}

func (f *fakeCatalog) Search(context.Context, winestore.Filter) ([]winestore.Wine, error) {
	return f.wines, f.err
}

func (f *fakeCatalog) DetailByID(context.Context, int64) (*winestore.WineDetail, error) {
	if f.detail == nil && f.err == nil {
		return nil, winestore.ErrNotFound
	}
	return f.detail, f.err
}

func (f *fakeCatalog) DetailByName(context.Context, string) (*winestore.WineDetail, error) {
	if f.detail == nil && f.err == nil {
		return nil, winestore.ErrNotFound
	}
	return f.detail, f.err
}

func (f *fakeCatalog) RegionCounts(context.Context, int) ([]winestore.NameCount, error) {
	return f.regions, f.err
}

func (f *fakeCatalog) TypeCounts(context.Context) ([]winestore.NameCount, error) {
	return f.types, f.err
}

func (f *fakeCatalog) InvestmentWines(context.Context, winestore.InvestmentFilter) ([]winestore.InvestmentWine, error) {
	return f.investment, f.err
}

func (f *fakeCatalog) PriceHistory(context.Context, int64, string) (*winestore.PriceTrend, error) {
	if f.trend == nil && f.err == nil {
		return nil, winestore.ErrNotFound
	}
	return f.trend, f.err
}

func (f *fakeCatalog) MarketOverview(context.Context) (*winestore.Overview, error) {
	return f.overview, f.err
}

func (f *fakeCatalog) PortfolioCandidates(context.Context, invest.Profile, float64) ([]invest.Candidate, error) {
	return f.candidates, f.err
}

// fakeMemory records AppendFact calls for tests.
type fakeMemory struct {
	lastUserID string
	lastType   string
	lastValue  string
	result     memory.SaveResult
}

func (f *fakeMemory) AppendFact(_ context.Context, userID, prefType, value string) memory.SaveResult {
	f.lastUserID = userID
	f.lastType = prefType
	f.lastValue = value
	return f.result
}
