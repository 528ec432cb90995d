// Package winestore reads the wine catalogue from Postgres. Every lookup is a
// plain read; the catalogue itself is maintained by the storefront service.
package winestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aionysus/dionysus/internal/invest"
	"github.com/aionysus/dionysus/internal/log"
)

// Store runs catalogue queries against a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger log.Logger
}

// New creates a Store on pool.
func New(pool *pgxpool.Pool, logger log.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Search lists active wines matching f, ordered by name.
func (s *Store) Search(ctx context.Context, f Filter) ([]Wine, error) {
	sql, args := buildSearchQuery(f)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search wines: %w", err)
	}
	defer rows.Close()

	var wines []Wine
	for rows.Next() {
		var w Wine
		if err := rows.Scan(&w.ID, &w.Name, &w.Winery, &w.Region, &w.Country,
			&w.GrapeVariety, &w.Vintage, &w.WineType, &w.Style, &w.Color,
			&w.PriceRetail, &w.TastingNotes, &w.CriticScores, &w.ImageURL, &w.Slug); err != nil {
			return nil, fmt.Errorf("scan wine: %w", err)
		}
		wines = append(wines, w)
	}
	return wines, rows.Err()
}

const detailColumns = searchColumns + `,
	price_trade, drinking_window, classification, stock_quantity`

func (s *Store) scanDetail(row pgx.Row) (*WineDetail, error) {
	var w WineDetail
	err := row.Scan(&w.ID, &w.Name, &w.Winery, &w.Region, &w.Country,
		&w.GrapeVariety, &w.Vintage, &w.WineType, &w.Style, &w.Color,
		&w.PriceRetail, &w.TastingNotes, &w.CriticScores, &w.ImageURL, &w.Slug,
		&w.PriceTrade, &w.DrinkingWindow, &w.Classification, &w.StockQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan wine detail: %w", err)
	}
	return &w, nil
}

// DetailByID fetches one wine by primary key.
func (s *Store) DetailByID(ctx context.Context, id int64) (*WineDetail, error) {
	sql := fmt.Sprintf(`SELECT %s FROM wines WHERE is_active = true AND id = $1`, detailColumns)
	return s.scanDetail(s.pool.QueryRow(ctx, sql, id))
}

// DetailByName fetches the best name match, preferring shorter names so an
// exact title beats a longer one that merely contains the query.
func (s *Store) DetailByName(ctx context.Context, name string) (*WineDetail, error) {
	sql := fmt.Sprintf(`SELECT %s FROM wines WHERE is_active = true AND name ILIKE $1
ORDER BY length(name) LIMIT 1`, detailColumns)
	return s.scanDetail(s.pool.QueryRow(ctx, sql, "%"+name+"%"))
}

// RegionCounts aggregates active wines per region, largest first.
func (s *Store) RegionCounts(ctx context.Context, limit int) ([]NameCount, error) {
	if limit <= 0 {
		limit = 20
	}
	sql := `SELECT region, COUNT(*) FROM wines
WHERE is_active = true AND region IS NOT NULL AND region <> ''
GROUP BY region ORDER BY COUNT(*) DESC, region LIMIT $1`
	return s.nameCounts(ctx, sql, limit)
}

// TypeCounts aggregates active wines per wine type, largest first.
func (s *Store) TypeCounts(ctx context.Context) ([]NameCount, error) {
	sql := `SELECT wine_type, COUNT(*) FROM wines
WHERE is_active = true AND wine_type IS NOT NULL AND wine_type <> ''
GROUP BY wine_type ORDER BY COUNT(*) DESC, wine_type`
	return s.nameCounts(ctx, sql)
}

func (s *Store) nameCounts(ctx context.Context, sql string, args ...any) ([]NameCount, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count wines: %w", err)
	}
	defer rows.Close()

	var counts []NameCount
	for rows.Next() {
		var c NameCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// InvestmentWines lists investment-grade wines matching f, best scores first.
func (s *Store) InvestmentWines(ctx context.Context, f InvestmentFilter) ([]InvestmentWine, error) {
	sql, args := buildInvestmentQuery(f)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("investment wines: %w", err)
	}
	defer rows.Close()

	var wines []InvestmentWine
	for rows.Next() {
		var w InvestmentWine
		if err := rows.Scan(&w.ID, &w.Name, &w.Region, &w.Vintage, &w.Price,
			&w.Score, &w.FiveYearReturn, &w.StorageType, &w.LivExScore); err != nil {
			return nil, fmt.Errorf("scan investment wine: %w", err)
		}
		wines = append(wines, w)
	}
	return wines, rows.Err()
}

// PriceHistory fetches one wine's price history for charting. A positive id
// wins; otherwise name is matched as a substring. Returns ErrNotFound when
// neither identifies a row.
func (s *Store) PriceHistory(ctx context.Context, id int64, name string) (*PriceTrend, error) {
	const cols = `name, region, price_history, investment_score, five_year_return`
	var row pgx.Row
	switch {
	case id > 0:
		row = s.pool.QueryRow(ctx,
			`SELECT `+cols+` FROM wines WHERE is_active = true AND id = $1`, id)
	case name != "":
		row = s.pool.QueryRow(ctx,
			`SELECT `+cols+` FROM wines WHERE is_active = true AND name ILIKE $1
ORDER BY length(name) LIMIT 1`, "%"+name+"%")
	default:
		return nil, ErrNotFound
	}

	var t PriceTrend
	err := row.Scan(&t.Name, &t.Region, &t.History, &t.Score, &t.FiveYearReturn)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan price history: %w", err)
	}
	return &t, nil
}

// MarketOverview summarises the catalogue for the market dashboard.
func (s *Store) MarketOverview(ctx context.Context) (*Overview, error) {
	var o Overview
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*),
	COUNT(DISTINCT region) FILTER (WHERE region IS NOT NULL AND region <> ''),
	COALESCE(AVG(price_retail), 0),
	COALESCE((SELECT vintage::text FROM wines
		WHERE is_active = true AND vintage IS NOT NULL
		GROUP BY vintage ORDER BY COUNT(*) DESC, vintage DESC LIMIT 1), '')
FROM wines WHERE is_active = true`).
		Scan(&o.TotalWines, &o.TotalRegions, &o.AvgPrice, &o.TopVintage)
	if err != nil {
		return nil, fmt.Errorf("market overview: %w", err)
	}

	top, err := s.RegionCounts(ctx, 5)
	if err != nil {
		return nil, err
	}
	o.TopRegions = top
	return &o, nil
}

// PortfolioCandidates lists investment-grade wines satisfying the risk
// profile and priced within maxPrice, ordered by descending score and capped
// at invest.MaxCandidates, ready for invest.BuildPortfolio.
func (s *Store) PortfolioCandidates(ctx context.Context, profile invest.Profile, maxPrice float64) ([]invest.Candidate, error) {
	sql, args := buildCandidateQuery(profile.MinScore, profile.Regions, profile.MinVintage, maxPrice, invest.MaxCandidates)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("portfolio candidates: %w", err)
	}
	defer rows.Close()

	var cands []invest.Candidate
	for rows.Next() {
		var (
			c       invest.Candidate
			region  *string
			vintage *int
			price   *float64
		)
		if err := rows.Scan(&c.WineID, &c.Name, &region, &vintage, &price,
			&c.Score, &c.FiveYearReturn); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if region != nil {
			c.Region = *region
		}
		if vintage != nil {
			c.Vintage = *vintage
		}
		if price != nil {
			c.Price = *price
		}
		cands = append(cands, c)
	}
	return cands, rows.Err()
}
