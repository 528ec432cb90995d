package invest

import "strings"

// Portfolio selection limits. The 2-per-region cap is the diversification
// constraint; the 6-entry cap keeps portfolios presentable.
const (
	MaxPerRegion     = 2
	MaxEntries       = 6
	MaxCandidates    = 20
	MaxPriceFraction = 0.4
)

// Profile is the candidate filter selected by a risk level.
type Profile struct {
	MinScore   float64
	Regions    []string // nil means unrestricted
	MinVintage int
}

// Risk levels.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

var profiles = map[string]Profile{
	RiskLow:    {MinScore: 8.5, Regions: []string{"bordeaux", "burgundy"}, MinVintage: 2000},
	RiskMedium: {MinScore: 7.0, Regions: []string{"bordeaux", "burgundy", "champagne", "tuscany"}, MinVintage: 1990},
	RiskHigh:   {MinScore: 6.0, Regions: nil, MinVintage: 1980},
}

// ProfileFor maps a risk level to its filter profile.
// Unrecognized levels fall back to medium.
func ProfileFor(riskLevel string) Profile {
	if p, ok := profiles[riskLevel]; ok {
		return p
	}
	return profiles[RiskMedium]
}

// Candidate is an investment-grade wine eligible for selection, as resolved
// from the store. Score and return are nil when the row carries no data.
type Candidate struct {
	WineID         int64
	Name           string
	Region         string
	Vintage        int
	Price          float64
	Score          *float64
	FiveYearReturn *float64
}

// Entry is one selected portfolio position. AllocationPercent is derived
// after the full set is chosen, never assigned incrementally.
type Entry struct {
	WineID            int64    `json:"id"`
	Name              string   `json:"name"`
	Region            string   `json:"region"`
	Vintage           int      `json:"vintage"`
	Price             float64  `json:"price"`
	InvestmentScore   *float64 `json:"investmentScore"`
	FiveYearReturn    *float64 `json:"fiveYearReturn"`
	AllocationPercent float64  `json:"allocation"`
}

// Portfolio is the diversified selection plus its derived metrics.
type Portfolio struct {
	Entries         []Entry
	TotalCost       float64
	RemainingBudget float64
	Regions         []string
	AvgScore        float64
	AvgReturn       float64
}

// BuildPortfolio greedily selects from candidates, which must already be
// ordered by descending investment score. A candidate is accepted iff the
// portfolio holds fewer than MaxPerRegion entries from its region, adding it
// stays within budget, and the portfolio holds fewer than MaxEntries;
// otherwise it is skipped and scanning continues. Selection never backtracks
// or swaps out an earlier acceptance.
func BuildPortfolio(budget float64, candidates []Candidate) Portfolio {
	var (
		entries   []Entry
		totalCost float64
		perRegion = make(map[string]int)
	)

	for _, c := range candidates {
		regionKey := strings.ToLower(c.Region)
		if regionKey == "" {
			regionKey = "unknown"
		}
		if perRegion[regionKey] >= MaxPerRegion {
			continue
		}
		if totalCost+c.Price > budget || len(entries) >= MaxEntries {
			continue
		}

		entries = append(entries, Entry{
			WineID:          c.WineID,
			Name:            c.Name,
			Region:          c.Region,
			Vintage:         c.Vintage,
			Price:           c.Price,
			InvestmentScore: c.Score,
			FiveYearReturn:  c.FiveYearReturn,
		})
		totalCost += c.Price
		perRegion[regionKey]++
	}

	// Allocations are a share of the final total, so they always sum to 100
	// for a non-empty selection.
	for i := range entries {
		if totalCost > 0 {
			entries[i].AllocationPercent = round1(entries[i].Price / totalCost * 100)
		}
	}

	var sumScore, sumReturn float64
	for _, e := range entries {
		if e.InvestmentScore != nil {
			sumScore += *e.InvestmentScore
		}
		if e.FiveYearReturn != nil {
			sumReturn += *e.FiveYearReturn
		}
	}

	var avgScore, avgReturn float64
	if len(entries) > 0 {
		avgScore = round1(sumScore / float64(len(entries)))
		avgReturn = round1(sumReturn / float64(len(entries)))
	}

	regions := make([]string, 0, len(perRegion))
	for _, e := range entries {
		key := strings.ToLower(e.Region)
		if key == "" {
			key = "unknown"
		}
		if !contains(regions, key) {
			regions = append(regions, key)
		}
	}

	return Portfolio{
		Entries:         entries,
		TotalCost:       round2(totalCost),
		RemainingBudget: round2(budget - totalCost),
		Regions:         regions,
		AvgScore:        avgScore,
		AvgReturn:       avgReturn,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
