package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionysus/dionysus/internal/winestore"
)

func strp(s string) *string { return &s }

func TestPairingKindPrefersWineType(t *testing.T) {
	w := &winestore.WineDetail{}
	w.WineType = strp("Sparkling")
	w.Color = strp("white")

	assert.Equal(t, "sparkling", pairingKind(w))
}

func TestPairingKindFallsBackToColor(t *testing.T) {
	w := &winestore.WineDetail{}
	w.WineType = strp("Grand Cru") // not a pairing kind
	w.Color = strp("Red")

	assert.Equal(t, "red", pairingKind(w))
}

func TestPairingKindUnknown(t *testing.T) {
	w := &winestore.WineDetail{}
	assert.Empty(t, pairingKind(w))
}

func TestEveryPairingKindHasSuggestions(t *testing.T) {
	for kind, foods := range foodPairings {
		assert.NotEmptyf(t, foods, "no pairings for %s", kind)
	}
}

func TestWineSummaryFlattensNullableColumns(t *testing.T) {
	price := 120.0
	vintage := 2015
	w := winestore.Wine{
		ID:          7,
		Name:        "Chateau Margaux",
		Region:      strp("Bordeaux"),
		Vintage:     &vintage,
		PriceRetail: &price,
	}

	s := wineSummary(w)
	assert.Equal(t, int64(7), s["id"])
	assert.Equal(t, "Bordeaux", s["region"])
	assert.Equal(t, 2015, s["vintage"])
	assert.Equal(t, 120.0, s["price"])
	// unset columns come through as zero values, never nil
	assert.Equal(t, "", s["winery"])
}

func TestWineDetailIncludesExtendedColumns(t *testing.T) {
	trade := 95.0
	stock := 4
	w := &winestore.WineDetail{}
	w.Name = "Petrus"
	w.PriceTrade = &trade
	w.StockQuantity = &stock
	w.DrinkingWindow = strp("2030-2050")

	d := wineDetail(w)
	require.Equal(t, "Petrus", d["name"])
	assert.Equal(t, 95.0, d["priceTrade"])
	assert.Equal(t, 4, d["stockQuantity"])
	assert.Equal(t, "2030-2050", d["drinkingWindow"])
}
