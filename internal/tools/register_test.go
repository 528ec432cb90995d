package tools

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionysus/dionysus/internal/log"
)

func TestRegisterDefinesEveryTool(t *testing.T) {
	g := genkit.Init(context.Background())

	Register(g, Deps{
		Store:  &fakeCatalog{},
		Memory: &fakeMemory{},
		Logger: log.NewNop(),
	})

	for _, name := range Names() {
		assert.NotNil(t, genkit.LookupTool(g, name), "tool %s not registered", name)
	}
}

func TestNamesCoverEveryDomain(t *testing.T) {
	names := Names()
	require.Len(t, names, 11)
	assert.Contains(t, names, "searchWines")
	assert.Contains(t, names, "calculateWineROI")
	assert.Contains(t, names, "buildPortfolio")
	assert.Contains(t, names, "saveWinePreference")
}

func TestErrResultShape(t *testing.T) {
	res := errResult("boom")
	assert.Equal(t, map[string]any{"error": "boom"}, res)
}
