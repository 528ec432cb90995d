package tools

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionysus/dionysus/internal/log"
	"github.com/aionysus/dionysus/internal/winestore"
)

func floatp(f float64) *float64 { return &f }

// newToolRig registers the tool set over store and returns a context
// carrying a fresh request State alongside it.
func newToolRig(t *testing.T, store *fakeCatalog) (*genkit.Genkit, *State, context.Context) {
	t.Helper()
	g := genkit.Init(context.Background())
	Register(g, Deps{
		Store:  store,
		Memory: &fakeMemory{},
		Logger: log.NewNop(),
	})
	st := NewState("usr-1")
	return g, st, WithState(context.Background(), st)
}

func runTool(t *testing.T, g *genkit.Genkit, ctx context.Context, name string, input map[string]any) map[string]any {
	t.Helper()
	tool := genkit.LookupTool(g, name)
	require.NotNil(t, tool, "tool %s not registered", name)
	out, err := tool.RunRaw(ctx, input)
	require.NoError(t, err)
	result, ok := out.(map[string]any)
	require.True(t, ok, "tool %s returned %T", name, out)
	return result
}

func TestCalculateROIUnknownWineByName(t *testing.T) {
	g, _, ctx := newToolRig(t, &fakeCatalog{})

	out := runTool(t, g, ctx, "calculateWineROI", map[string]any{
		"name":   "Chateau Nonexistent",
		"amount": 1000,
	})

	assert.Contains(t, out["error"], "no wine found matching")
	assert.NotContains(t, out, "projection")
}

func TestCalculateROIUnknownWineByID(t *testing.T) {
	g, _, ctx := newToolRig(t, &fakeCatalog{})

	out := runTool(t, g, ctx, "calculateWineROI", map[string]any{
		"wineId": 404,
		"amount": 1000,
	})

	assert.Contains(t, out["error"], "no wine found matching id 404")
	assert.NotContains(t, out, "projection")
}

func TestCalculateROIWithoutIdentifierUsesFallbacks(t *testing.T) {
	g, _, ctx := newToolRig(t, &fakeCatalog{})

	out := runTool(t, g, ctx, "calculateWineROI", map[string]any{
		"amount": 1200,
	})

	require.NotContains(t, out, "error")
	require.Contains(t, out, "projection")
	assert.NotContains(t, out, "wine")
}

func TestCalculateROISetsAmbientRegionScene(t *testing.T) {
	detail := &winestore.WineDetail{Wine: winestore.Wine{
		ID:          7,
		Name:        "Chateau Margaux 2015",
		Region:      strp("Bordeaux - Margaux"),
		PriceRetail: floatp(850),
	}}
	g, st, ctx := newToolRig(t, &fakeCatalog{
		detail: detail,
		trend:  &winestore.PriceTrend{Name: detail.Name, FiveYearReturn: floatp(42)},
	})

	out := runTool(t, g, ctx, "calculateWineROI", map[string]any{
		"name":   "margaux",
		"amount": 5000,
	})

	require.Contains(t, out, "projection")
	scene := st.Scene()
	require.NotNil(t, scene)
	assert.Equal(t, SceneRegion, scene.Kind)
	// Compound region values narrow to their leading word.
	assert.Equal(t, "bordeaux", scene.Payload)
}

func TestSearchWinesSetsAmbientScene(t *testing.T) {
	store := &fakeCatalog{wines: []winestore.Wine{{ID: 1, Name: "Barolo Riserva"}}}

	t.Run("region wins", func(t *testing.T) {
		g, st, ctx := newToolRig(t, store)
		runTool(t, g, ctx, "searchWines", map[string]any{
			"region":   "Tuscany",
			"wineType": "red",
		})
		scene := st.Scene()
		require.NotNil(t, scene)
		assert.Equal(t, SceneRegion, scene.Kind)
		assert.Equal(t, "tuscany", scene.Payload)
	})

	t.Run("wine type alone", func(t *testing.T) {
		g, st, ctx := newToolRig(t, store)
		runTool(t, g, ctx, "searchWines", map[string]any{"wineType": "Sparkling"})
		scene := st.Scene()
		require.NotNil(t, scene)
		assert.Equal(t, SceneWineType, scene.Kind)
		assert.Equal(t, "sparkling", scene.Payload)
	})

	t.Run("no filters leaves the scene alone", func(t *testing.T) {
		g, st, ctx := newToolRig(t, store)
		runTool(t, g, ctx, "searchWines", map[string]any{"query": "barolo"})
		assert.Nil(t, st.Scene())
	})
}

func TestWineDetailsSetsAmbientScene(t *testing.T) {
	g, st, ctx := newToolRig(t, &fakeCatalog{detail: &winestore.WineDetail{Wine: winestore.Wine{
		ID:     3,
		Name:   "Corton-Charlemagne",
		Region: strp("Burgundy"),
	}}})

	runTool(t, g, ctx, "getWineDetails", map[string]any{"name": "corton"})

	scene := st.Scene()
	require.NotNil(t, scene)
	assert.Equal(t, SceneRegion, scene.Kind)
	assert.Equal(t, "burgundy", scene.Payload)
}

func TestInvestmentWinesSetsAmbientScene(t *testing.T) {
	g, st, ctx := newToolRig(t, &fakeCatalog{investment: []winestore.InvestmentWine{
		{ID: 9, Name: "Sassicaia"},
	}})

	runTool(t, g, ctx, "getInvestmentWines", map[string]any{"region": "Tuscany"})

	scene := st.Scene()
	require.NotNil(t, scene)
	assert.Equal(t, SceneRegion, scene.Kind)
	assert.Equal(t, "tuscany", scene.Payload)
}
