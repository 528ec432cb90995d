package winestore

import (
	"fmt"
	"strings"
)

// Filter is the caller's search criteria. Every field is optional; set fields
// are AND-combined, zero fields are left out of the statement entirely.
type Filter struct {
	Query        string
	Region       string
	Country      string
	WineType     string
	GrapeVariety string
	Color        string
	Style        string
	MinPrice     *float64
	MaxPrice     *float64
	MinVintage   *int
	MaxVintage   *int
	Limit        int
}

// InvestmentFilter narrows the investment-grade listing.
type InvestmentFilter struct {
	Region   string
	MinScore *float64
	MaxPrice *float64
	Limit    int
}

const defaultSearchLimit = 10

const searchColumns = `id, name, winery, region, country, grape_variety, vintage,
	wine_type, style, color, price_retail, tasting_notes, critic_scores, image_url, slug`

// condBuilder accumulates WHERE clauses with positional placeholders.
type condBuilder struct {
	conds []string
	args  []any
}

func (b *condBuilder) add(expr string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(expr, len(b.args)))
}

func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " AND " + strings.Join(b.conds, " AND ")
}

// buildSearchQuery renders the catalogue search statement for f. Text fields
// match case-insensitively as substrings; numeric bounds are inclusive.
func buildSearchQuery(f Filter) (string, []any) {
	b := &condBuilder{}
	if q := strings.TrimSpace(f.Query); q != "" {
		b.add(`(name ILIKE $%[1]d OR winery ILIKE $%[1]d OR grape_variety ILIKE $%[1]d OR tasting_notes ILIKE $%[1]d)`, "%"+q+"%")
	}
	if f.Region != "" {
		b.add("region ILIKE $%d", "%"+f.Region+"%")
	}
	if f.Country != "" {
		b.add("country ILIKE $%d", "%"+f.Country+"%")
	}
	if f.WineType != "" {
		b.add("wine_type ILIKE $%d", "%"+f.WineType+"%")
	}
	if f.GrapeVariety != "" {
		b.add("grape_variety ILIKE $%d", "%"+f.GrapeVariety+"%")
	}
	if f.Color != "" {
		b.add("color ILIKE $%d", f.Color)
	}
	if f.Style != "" {
		b.add("style ILIKE $%d", "%"+f.Style+"%")
	}
	if f.MinPrice != nil {
		b.add("price_retail >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.add("price_retail <= $%d", *f.MaxPrice)
	}
	if f.MinVintage != nil {
		b.add("vintage >= $%d", *f.MinVintage)
	}
	if f.MaxVintage != nil {
		b.add("vintage <= $%d", *f.MaxVintage)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	sql := fmt.Sprintf(`SELECT %s FROM wines WHERE is_active = true%s ORDER BY name LIMIT %d`,
		searchColumns, b.where(), limit)
	return sql, b.args
}

// buildInvestmentQuery renders the investment-grade listing statement.
func buildInvestmentQuery(f InvestmentFilter) (string, []any) {
	b := &condBuilder{}
	if f.Region != "" {
		b.add("region ILIKE $%d", "%"+f.Region+"%")
	}
	if f.MinScore != nil {
		b.add("investment_score >= $%d", *f.MinScore)
	}
	if f.MaxPrice != nil {
		b.add("price_retail <= $%d", *f.MaxPrice)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	sql := fmt.Sprintf(`SELECT id, name, region, vintage, price_retail, investment_score,
	five_year_return, storage_type, liv_ex_score
FROM wines WHERE is_active = true AND is_investment_grade = true%s
ORDER BY investment_score DESC NULLS LAST LIMIT %d`, b.where(), limit)
	return sql, b.args
}

// buildCandidateQuery renders the portfolio candidate statement: investment
// grade rows matching the risk profile, affordable within maxPrice, best
// scores first, capped at limit.
func buildCandidateQuery(minScore float64, regions []string, minVintage int, maxPrice float64, limit int) (string, []any) {
	b := &condBuilder{}
	b.add("investment_score >= $%d", minScore)
	if minVintage > 0 {
		b.add("vintage >= $%d", minVintage)
	}
	b.add("price_retail > $%d", 0.0)
	b.add("price_retail <= $%d", maxPrice)
	if len(regions) > 0 {
		// Substring match per region: catalogue rows carry compound values
		// like "Bordeaux - Margaux" that an exact comparison would miss.
		ors := make([]string, len(regions))
		for i, r := range regions {
			b.args = append(b.args, "%"+r+"%")
			ors[i] = fmt.Sprintf("region ILIKE $%d", len(b.args))
		}
		b.conds = append(b.conds, "("+strings.Join(ors, " OR ")+")")
	}

	sql := fmt.Sprintf(`SELECT id, name, region, vintage, price_retail, investment_score, five_year_return
FROM wines WHERE is_active = true AND is_investment_grade = true%s
ORDER BY investment_score DESC NULLS LAST LIMIT %d`, b.where(), limit)
	return sql, b.args
}
