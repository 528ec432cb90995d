package winestore

import (
	"encoding/json"
	"errors"
)

// ErrNotFound indicates no wine matched the identifying input.
var ErrNotFound = errors.New("wine not found")

// Wine is one row of the wines table. Nullable columns map to pointers.
// Rows are read-only from this service's perspective; the catalogue is owned
// by the storefront.
type Wine struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Winery        *string  `json:"winery"`
	Region        *string  `json:"region"`
	Country       *string  `json:"country"`
	GrapeVariety  *string  `json:"grape_variety"`
	Vintage       *int     `json:"vintage"`
	WineType      *string  `json:"wine_type"`
	Style         *string  `json:"style"`
	Color         *string  `json:"color"`
	PriceRetail   *float64 `json:"price_retail"`
	TastingNotes  *string  `json:"tasting_notes"`
	CriticScores  *string  `json:"critic_scores"`
	ImageURL      *string  `json:"image_url"`
	Slug          *string  `json:"slug"`
}

// WineDetail extends Wine with the columns only the detail view needs.
type WineDetail struct {
	Wine
	PriceTrade     *float64 `json:"price_trade"`
	DrinkingWindow *string  `json:"drinking_window"`
	Classification *string  `json:"classification"`
	StockQuantity  *int     `json:"stock_quantity"`
}

// InvestmentWine is the investment-grade projection of a wine row.
type InvestmentWine struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Region         *string  `json:"region"`
	Vintage        *int     `json:"vintage"`
	Price          *float64 `json:"price"`
	Score          *float64 `json:"investmentScore"`
	FiveYearReturn *float64 `json:"fiveYearReturn"`
	StorageType    *string  `json:"storageType"`
	LivExScore     *int     `json:"livExScore"`
}

// PriceTrend is one wine's (or one region's averaged) price history for
// charting. History is the raw price_history JSON column passed through.
type PriceTrend struct {
	Name           string          `json:"wineName"`
	Region         *string         `json:"region"`
	History        json.RawMessage `json:"chartData"`
	Score          *float64        `json:"investmentScore"`
	FiveYearReturn *float64        `json:"fiveYearReturn"`
}

// NameCount is one aggregate bucket (region or wine type).
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Overview is the market dashboard summary.
type Overview struct {
	TotalWines   int64       `json:"totalWines"`
	TotalRegions int64       `json:"totalRegions"`
	AvgPrice     float64     `json:"avgPrice"`
	TopVintage   string      `json:"topVintage"`
	TopRegions   []NameCount `json:"topRegions"`
}
