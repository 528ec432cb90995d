// Package tools defines the sommelier's genkit tools: catalogue search,
// investment analytics, and preference capture. Tool failures degrade to a
// structured {"error": ...} result so the model can explain the problem
// instead of the turn aborting.
package tools

import (
	"context"

	"github.com/firebase/genkit/go/genkit"

	"github.com/aionysus/dionysus/internal/invest"
	"github.com/aionysus/dionysus/internal/log"
	"github.com/aionysus/dionysus/internal/memory"
	"github.com/aionysus/dionysus/internal/winestore"
)

// Catalog is the read side of the wine store used by the tools.
type Catalog interface {
	Search(ctx context.Context, f winestore.Filter) ([]winestore.Wine, error)
	DetailByID(ctx context.Context, id int64) (*winestore.WineDetail, error)
	DetailByName(ctx context.Context, name string) (*winestore.WineDetail, error)
	RegionCounts(ctx context.Context, limit int) ([]winestore.NameCount, error)
	TypeCounts(ctx context.Context) ([]winestore.NameCount, error)
	InvestmentWines(ctx context.Context, f winestore.InvestmentFilter) ([]winestore.InvestmentWine, error)
	PriceHistory(ctx context.Context, id int64, name string) (*winestore.PriceTrend, error)
	MarketOverview(ctx context.Context) (*winestore.Overview, error)
	PortfolioCandidates(ctx context.Context, profile invest.Profile, maxPrice float64) ([]invest.Candidate, error)
}

// PreferenceWriter is the write side of the preference memory service.
type PreferenceWriter interface {
	AppendFact(ctx context.Context, userID, prefType, value string) memory.SaveResult
}

// toolNames is the single source of truth for registered tool names.
var toolNames = []string{
	"searchWines",
	"getWineDetails",
	"showWineRegions",
	"showWineTypes",
	"getFoodPairings",
	"getInvestmentWines",
	"showInvestmentChart",
	"calculateWineROI",
	"buildPortfolio",
	"showWineMarket",
	"saveWinePreference",
}

// Names returns all registered tool names for the generation call.
func Names() []string {
	return toolNames
}

// Deps are the external services the tools close over.
type Deps struct {
	Store  Catalog
	Memory PreferenceWriter
	Logger log.Logger
}

// Register defines every sommelier tool on g. Dependencies are captured by
// closures; there is no package-level state.
func Register(g *genkit.Genkit, d Deps) {
	registerCatalogTools(g, d.Store, d.Logger)
	registerInvestmentTools(g, d.Store, d.Logger)
	registerPreferenceTools(g, d.Memory, d.Logger)
}

// errResult is the degraded tool result. The model receives it as data and
// can apologise in prose.
func errResult(msg string) map[string]any {
	return map[string]any{"error": msg}
}
