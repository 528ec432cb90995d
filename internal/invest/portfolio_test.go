package invest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFor(t *testing.T) {
	low := ProfileFor(RiskLow)
	assert.Equal(t, 8.5, low.MinScore)
	assert.Equal(t, []string{"bordeaux", "burgundy"}, low.Regions)
	assert.Equal(t, 2000, low.MinVintage)

	high := ProfileFor(RiskHigh)
	assert.Nil(t, high.Regions)

	// Unrecognized risk falls back to medium.
	assert.Equal(t, ProfileFor(RiskMedium), ProfileFor("yolo"))
}

func candidate(id int64, region string, price, score float64) Candidate {
	s := score
	r := 20.0
	return Candidate{
		WineID: id, Name: "wine", Region: region, Vintage: 2010,
		Price: price, Score: &s, FiveYearReturn: &r,
	}
}

func TestBuildPortfolio_RegionCap(t *testing.T) {
	// Three bordeaux candidates, budget far above their combined price:
	// the diversification constraint still caps bordeaux at two entries.
	candidates := []Candidate{
		candidate(1, "Bordeaux", 100, 9.5),
		candidate(2, "bordeaux", 100, 9.2),
		candidate(3, "Bordeaux", 100, 9.0),
		candidate(4, "Burgundy", 100, 8.8),
	}

	p := BuildPortfolio(10000, candidates)

	require.Len(t, p.Entries, 3)
	bordeaux := 0
	for _, e := range p.Entries {
		if e.Region == "Bordeaux" || e.Region == "bordeaux" {
			bordeaux++
		}
	}
	assert.Equal(t, 2, bordeaux)
}

func TestBuildPortfolio_BudgetAndSizeCaps(t *testing.T) {
	var candidates []Candidate
	regions := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, r := range regions {
		candidates = append(candidates, candidate(int64(i), r, 100, 9))
	}

	// Size cap: never more than six entries.
	p := BuildPortfolio(10000, candidates)
	assert.Len(t, p.Entries, MaxEntries)

	// Budget cap: an unaffordable candidate is skipped, scanning continues.
	candidates = []Candidate{
		candidate(1, "a", 900, 9.5),
		candidate(2, "b", 500, 9.0), // would exceed 1000
		candidate(3, "c", 80, 8.5),
	}
	p = BuildPortfolio(1000, candidates)
	require.Len(t, p.Entries, 2)
	assert.Equal(t, int64(1), p.Entries[0].WineID)
	assert.Equal(t, int64(3), p.Entries[1].WineID)
	assert.InDelta(t, 980, p.TotalCost, 0.001)
	assert.InDelta(t, 20, p.RemainingBudget, 0.001)
}

func TestBuildPortfolio_AllocationsSumTo100(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "a", 350, 9.5),
		candidate(2, "b", 210, 9.0),
		candidate(3, "c", 90, 8.5),
	}
	p := BuildPortfolio(1000, candidates)
	require.NotEmpty(t, p.Entries)

	var sum float64
	for _, e := range p.Entries {
		sum += e.AllocationPercent
	}
	assert.InDelta(t, 100, sum, 0.5)
}

func TestBuildPortfolio_Empty(t *testing.T) {
	p := BuildPortfolio(1000, nil)
	assert.Empty(t, p.Entries)
	assert.Equal(t, 0.0, p.TotalCost)
	assert.Equal(t, 0.0, p.AvgScore)
	assert.Equal(t, 0.0, p.AvgReturn)
	assert.Equal(t, 1000.0, p.RemainingBudget)
}

func TestBuildPortfolio_Metrics(t *testing.T) {
	candidates := []Candidate{
		candidate(1, "a", 100, 9.0),
		candidate(2, "b", 100, 8.0),
	}
	p := BuildPortfolio(1000, candidates)

	assert.Equal(t, 8.5, p.AvgScore)
	assert.Equal(t, 20.0, p.AvgReturn)
	assert.ElementsMatch(t, []string{"a", "b"}, p.Regions)
}

func TestBuildPortfolio_NilScoresTreatedAsZero(t *testing.T) {
	c := Candidate{WineID: 1, Region: "a", Price: 100}
	p := BuildPortfolio(1000, []Candidate{c})
	require.Len(t, p.Entries, 1)
	assert.Equal(t, 0.0, p.AvgScore)
	assert.Equal(t, 0.0, p.AvgReturn)
	assert.Equal(t, 100.0, p.Entries[0].AllocationPercent)
}
