package tools

import (
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/aionysus/dionysus/internal/log"
	"github.com/aionysus/dionysus/internal/phonetics"
	"github.com/aionysus/dionysus/internal/winestore"
)

// registerCatalogTools registers the wine discovery tools.
func registerCatalogTools(g *genkit.Genkit, store Catalog, logger log.Logger) {
	genkit.DefineTool(
		g,
		"searchWines",
		"Search the wine catalogue by free text and optional filters. "+
			"Free text matches wine name, winery, grape variety and tasting notes. "+
			"All filters combine; leave a filter empty to ignore it. "+
			"Use for: finding wines by name, grape, region, style, colour, or price range.",
		func(ctx *ai.ToolContext, input struct {
			Query        string   `json:"query,omitempty" jsonschema_description:"Free text to match against name, winery, grape and tasting notes (e.g. 'margaux', 'sauvignon blanc')."`
			Region       string   `json:"region,omitempty" jsonschema_description:"Region filter (e.g. 'Bordeaux', 'Tuscany')."`
			Country      string   `json:"country,omitempty" jsonschema_description:"Country filter (e.g. 'France')."`
			WineType     string   `json:"wineType,omitempty" jsonschema_description:"Wine type filter (e.g. 'red', 'white', 'sparkling')."`
			GrapeVariety string   `json:"grapeVariety,omitempty" jsonschema_description:"Grape variety filter (e.g. 'Pinot Noir')."`
			Color        string   `json:"color,omitempty" jsonschema_description:"Colour filter: red, white or rose."`
			Style        string   `json:"style,omitempty" jsonschema_description:"Style filter (e.g. 'full-bodied', 'crisp')."`
			MinPrice     *float64 `json:"minPrice,omitempty" jsonschema_description:"Minimum retail price in GBP."`
			MaxPrice     *float64 `json:"maxPrice,omitempty" jsonschema_description:"Maximum retail price in GBP."`
			MinVintage   *int     `json:"minVintage,omitempty" jsonschema_description:"Earliest vintage year, inclusive."`
			MaxVintage   *int     `json:"maxVintage,omitempty" jsonschema_description:"Latest vintage year, inclusive."`
			Limit        int      `json:"limit,omitempty" jsonschema_description:"Maximum results to return, default 10."`
		},
		) (map[string]any, error) {
			f := winestore.Filter{
				Query:        phonetics.Normalize(input.Query),
				Region:       phonetics.Normalize(input.Region),
				Country:      input.Country,
				WineType:     input.WineType,
				GrapeVariety: phonetics.Normalize(input.GrapeVariety),
				Color:        input.Color,
				Style:        input.Style,
				MinPrice:     input.MinPrice,
				MaxPrice:     input.MaxPrice,
				MinVintage:   input.MinVintage,
				MaxVintage:   input.MaxVintage,
				Limit:        input.Limit,
			}
			wines, err := store.Search(ctx, f)
			if err != nil {
				logger.Error("wine search failed", "error", err)
				return errResult("the wine catalogue is unavailable right now"), nil
			}
			setAmbientScene(ctx, f.Region, input.WineType)
			results := make([]map[string]any, 0, len(wines))
			for _, w := range wines {
				results = append(results, wineSummary(w))
			}
			return map[string]any{"count": len(results), "wines": results}, nil
		},
	)

	genkit.DefineTool(
		g,
		"getWineDetails",
		"Fetch the full record for one wine, by id or by name. "+
			"Returns tasting notes, critic scores, prices, drinking window and stock. "+
			"Use for: answering questions about a specific bottle.",
		func(ctx *ai.ToolContext, input struct {
			WineID int64  `json:"wineId,omitempty" jsonschema_description:"Catalogue id of the wine, when known."`
			Name   string `json:"name,omitempty" jsonschema_description:"Wine name to look up when the id is unknown. Partial names match."`
		},
		) (map[string]any, error) {
			var (
				w   *winestore.WineDetail
				err error
			)
			switch {
			case input.WineID > 0:
				w, err = store.DetailByID(ctx, input.WineID)
			case strings.TrimSpace(input.Name) != "":
				w, err = store.DetailByName(ctx, phonetics.Normalize(input.Name))
			default:
				return errResult("provide a wine id or a wine name"), nil
			}
			if err == winestore.ErrNotFound {
				return errResult(fmt.Sprintf("no wine found matching %q", input.Name)), nil
			}
			if err != nil {
				logger.Error("wine detail lookup failed", "error", err)
				return errResult("the wine catalogue is unavailable right now"), nil
			}
			setAmbientScene(ctx, strVal(w.Region), "")
			return wineDetail(w), nil
		},
	)

	genkit.DefineTool(
		g,
		"showWineRegions",
		"List the wine regions in the catalogue with how many wines each holds, "+
			"and show the region overview to the user. "+
			"Use for: 'what regions do you have', browsing by region.",
		func(ctx *ai.ToolContext, input struct {
			Limit int `json:"limit,omitempty" jsonschema_description:"Maximum regions to return, default 20."`
		},
		) (map[string]any, error) {
			counts, err := store.RegionCounts(ctx, input.Limit)
			if err != nil {
				logger.Error("region counts failed", "error", err)
				return errResult("the wine catalogue is unavailable right now"), nil
			}
			if st := StateFrom(ctx); st != nil {
				st.SetScene(Scene{Kind: SceneRegions, Payload: counts})
			}
			return map[string]any{"regions": counts}, nil
		},
	)

	genkit.DefineTool(
		g,
		"showWineTypes",
		"List the wine types in the catalogue with how many wines each holds, "+
			"and show the type overview to the user. "+
			"Use for: 'what kinds of wine do you have'.",
		func(ctx *ai.ToolContext, input struct{}) (map[string]any, error) {
			counts, err := store.TypeCounts(ctx)
			if err != nil {
				logger.Error("type counts failed", "error", err)
				return errResult("the wine catalogue is unavailable right now"), nil
			}
			if st := StateFrom(ctx); st != nil {
				st.SetScene(Scene{Kind: SceneTypes, Payload: counts})
			}
			return map[string]any{"types": counts}, nil
		},
	)

	genkit.DefineTool(
		g,
		"getFoodPairings",
		"Suggest food pairings for a wine. Looks the wine up by name to pair by "+
			"its grape and style; falls back to pairing by wine type or colour. "+
			"Use for: 'what goes with this', dinner planning.",
		func(ctx *ai.ToolContext, input struct {
			Name     string `json:"name,omitempty" jsonschema_description:"Wine name to pair. Partial names match."`
			WineType string `json:"wineType,omitempty" jsonschema_description:"Wine type or colour to pair when no specific wine is named (e.g. 'red', 'sparkling')."`
		},
		) (map[string]any, error) {
			kind := strings.ToLower(strings.TrimSpace(input.WineType))
			wineName := strings.TrimSpace(input.Name)
			if wineName != "" {
				w, err := store.DetailByName(ctx, phonetics.Normalize(wineName))
				switch {
				case err == winestore.ErrNotFound:
					// pair by type instead
				case err != nil:
					logger.Error("pairing lookup failed", "error", err)
					return errResult("the wine catalogue is unavailable right now"), nil
				default:
					wineName = w.Name
					if k := pairingKind(w); k != "" {
						kind = k
					}
				}
			}
			pairings, ok := foodPairings[kind]
			if !ok {
				pairings = foodPairings["red"]
				kind = "red"
			}
			result := map[string]any{"kind": kind, "pairings": pairings}
			if wineName != "" {
				result["wine"] = wineName
			}
			return result, nil
		},
	)
}

// foodPairings maps a wine kind to classic matches.
var foodPairings = map[string][]string{
	"red":       {"roast beef", "grilled lamb", "aged hard cheeses", "mushroom dishes"},
	"white":     {"roast chicken", "grilled fish", "creamy pasta", "soft cheeses"},
	"rose":      {"charcuterie", "grilled salmon", "Mediterranean salads"},
	"sparkling": {"oysters", "fried foods", "sushi", "fresh berries"},
	"dessert":   {"blue cheese", "fruit tarts", "creme brulee"},
	"fortified": {"dark chocolate", "stilton", "roasted nuts"},
}

func pairingKind(w *winestore.WineDetail) string {
	for _, field := range []*string{w.WineType, w.Color} {
		if field == nil {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(*field))
		if _, ok := foodPairings[k]; ok {
			return k
		}
	}
	return ""
}

func wineSummary(w winestore.Wine) map[string]any {
	return map[string]any{
		"id":           w.ID,
		"name":         w.Name,
		"winery":       strVal(w.Winery),
		"region":       strVal(w.Region),
		"country":      strVal(w.Country),
		"grapeVariety": strVal(w.GrapeVariety),
		"vintage":      intVal(w.Vintage),
		"wineType":     strVal(w.WineType),
		"color":        strVal(w.Color),
		"price":        floatVal(w.PriceRetail),
	}
}

func wineDetail(w *winestore.WineDetail) map[string]any {
	d := wineSummary(w.Wine)
	d["style"] = strVal(w.Style)
	d["tastingNotes"] = strVal(w.TastingNotes)
	d["criticScores"] = strVal(w.CriticScores)
	d["priceTrade"] = floatVal(w.PriceTrade)
	d["drinkingWindow"] = strVal(w.DrinkingWindow)
	d["classification"] = strVal(w.Classification)
	d["stockQuantity"] = intVal(w.StockQuantity)
	return d
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func floatVal(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
