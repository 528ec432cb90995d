package tools

import (
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/aionysus/dionysus/internal/invest"
	"github.com/aionysus/dionysus/internal/log"
	"github.com/aionysus/dionysus/internal/phonetics"
	"github.com/aionysus/dionysus/internal/winestore"
)

// registerInvestmentTools registers the fine-wine investment tools.
func registerInvestmentTools(g *genkit.Genkit, store Catalog, logger log.Logger) {
	genkit.DefineTool(
		g,
		"getInvestmentWines",
		"List investment-grade wines, best investment scores first. "+
			"Optionally filter by region, minimum score or maximum price. "+
			"Use for: 'which wines are worth investing in'.",
		func(ctx *ai.ToolContext, input struct {
			Region   string   `json:"region,omitempty" jsonschema_description:"Region filter (e.g. 'Bordeaux')."`
			MinScore *float64 `json:"minScore,omitempty" jsonschema_description:"Minimum investment score on a 10-point scale."`
			MaxPrice *float64 `json:"maxPrice,omitempty" jsonschema_description:"Maximum retail price in GBP."`
			Limit    int      `json:"limit,omitempty" jsonschema_description:"Maximum results to return, default 10."`
		},
		) (map[string]any, error) {
			wines, err := store.InvestmentWines(ctx, winestore.InvestmentFilter{
				Region:   phonetics.Normalize(input.Region),
				MinScore: input.MinScore,
				MaxPrice: input.MaxPrice,
				Limit:    input.Limit,
			})
			if err != nil {
				logger.Error("investment listing failed", "error", err)
				return errResult("the wine catalogue is unavailable right now"), nil
			}
			setAmbientScene(ctx, input.Region, "")
			return map[string]any{"count": len(wines), "wines": wines}, nil
		},
	)

	genkit.DefineTool(
		g,
		"showInvestmentChart",
		"Show the price history chart for one wine, by id or by name. "+
			"Use for: 'how has this wine performed', price trend questions.",
		func(ctx *ai.ToolContext, input struct {
			WineID int64  `json:"wineId,omitempty" jsonschema_description:"Catalogue id of the wine, when known."`
			Name   string `json:"name,omitempty" jsonschema_description:"Wine name to chart when the id is unknown. Partial names match."`
		},
		) (map[string]any, error) {
			trend, err := store.PriceHistory(ctx, input.WineID, phonetics.Normalize(input.Name))
			if err == winestore.ErrNotFound {
				return errResult(fmt.Sprintf("no price history found for %q", input.Name)), nil
			}
			if err != nil {
				logger.Error("price history failed", "error", err)
				return errResult("the wine catalogue is unavailable right now"), nil
			}
			if st := StateFrom(ctx); st != nil {
				st.SetScene(Scene{Kind: SceneInvestmentChart, Payload: trend})
			}
			return map[string]any{
				"wine":            trend.Name,
				"region":          strVal(trend.Region),
				"investmentScore": floatVal(trend.Score),
				"fiveYearReturn":  floatVal(trend.FiveYearReturn),
			}, nil
		},
	)

	genkit.DefineTool(
		g,
		"calculateWineROI",
		"Project the return on investing a given amount in one wine over a "+
			"number of years, including storage, insurance and duty costs. "+
			"Storage type 'bonded' avoids duty; anything else pays it. "+
			"Use for: 'if I put 5000 into this wine, what do I get back'.",
		func(ctx *ai.ToolContext, input struct {
			WineID      int64   `json:"wineId,omitempty" jsonschema_description:"Catalogue id of the wine, when known."`
			Name        string  `json:"name,omitempty" jsonschema_description:"Wine name, when the id is unknown. Partial names match."`
			Amount      float64 `json:"amount" jsonschema_description:"Amount to invest in GBP."`
			Years       int     `json:"years,omitempty" jsonschema_description:"Holding period in years, default 5."`
			StorageType string  `json:"storageType,omitempty" jsonschema_description:"Where the wine is kept: 'bonded' (duty free) or 'private_cellar'. Default bonded."`
		},
		) (map[string]any, error) {
			if input.Amount <= 0 {
				return errResult("the investment amount must be positive"), nil
			}
			years := input.Years
			if years <= 0 {
				years = 5
			}
			storage := input.StorageType
			if storage == "" {
				storage = invest.StorageBonded
			}

			var (
				unitPrice  *float64
				fiveYear   *float64
				wineName   string
				wineRegion string
			)
			switch {
			case input.WineID > 0:
				w, err := store.DetailByID(ctx, input.WineID)
				if err == winestore.ErrNotFound {
					return errResult(fmt.Sprintf("no wine found matching id %d", input.WineID)), nil
				}
				if err != nil {
					logger.Error("roi wine lookup failed", "error", err)
					return errResult("the wine catalogue is unavailable right now"), nil
				}
				wineName = w.Name
				unitPrice = w.PriceRetail
				fiveYear = investReturn(store, ctx, w.ID)
				wineRegion = strVal(w.Region)
			case strings.TrimSpace(input.Name) != "":
				w, err := store.DetailByName(ctx, phonetics.Normalize(input.Name))
				if err == winestore.ErrNotFound {
					return errResult(fmt.Sprintf("no wine found matching %q", input.Name)), nil
				}
				if err != nil {
					logger.Error("roi wine lookup failed", "error", err)
					return errResult("the wine catalogue is unavailable right now"), nil
				}
				wineName = w.Name
				unitPrice = w.PriceRetail
				fiveYear = investReturn(store, ctx, w.ID)
				wineRegion = strVal(w.Region)
			}

			if words := strings.Fields(wineRegion); len(words) > 0 {
				setAmbientScene(ctx, words[0], "")
			}
			breakdown := invest.CalculateROI(unitPrice, fiveYear, input.Amount, years, storage)
			result := map[string]any{"projection": breakdown}
			if wineName != "" {
				result["wine"] = wineName
			}
			return result, nil
		},
	)

	genkit.DefineTool(
		g,
		"buildPortfolio",
		"Build a diversified fine-wine portfolio for a budget and risk appetite. "+
			"Risk levels: low (top Bordeaux and Burgundy), medium (established regions), "+
			"high (wider net, younger vintages). Shows the portfolio to the user. "+
			"Use for: 'build me a wine portfolio for 10000'.",
		func(ctx *ai.ToolContext, input struct {
			Budget    float64 `json:"budget" jsonschema_description:"Total budget in GBP."`
			RiskLevel string  `json:"riskLevel,omitempty" jsonschema_description:"Risk appetite: low, medium or high. Default medium."`
		},
		) (map[string]any, error) {
			if input.Budget <= 0 {
				return errResult("the budget must be positive"), nil
			}
			profile := invest.ProfileFor(input.RiskLevel)
			maxPrice := input.Budget * invest.MaxPriceFraction
			cands, err := store.PortfolioCandidates(ctx, profile, maxPrice)
			if err != nil {
				logger.Error("portfolio candidates failed", "error", err)
				return errResult("the wine catalogue is unavailable right now"), nil
			}
			p := invest.BuildPortfolio(input.Budget, cands)
			if len(p.Entries) == 0 {
				return errResult("no suitable wines were found for that budget and risk level"), nil
			}
			if st := StateFrom(ctx); st != nil {
				st.SetScene(Scene{Kind: ScenePortfolio, Payload: p})
			}
			return map[string]any{
				"entries":         p.Entries,
				"totalCost":       p.TotalCost,
				"remainingBudget": p.RemainingBudget,
				"regions":         p.Regions,
				"avgScore":        p.AvgScore,
				"avgReturn":       p.AvgReturn,
			}, nil
		},
	)

	genkit.DefineTool(
		g,
		"showWineMarket",
		"Show the wine market overview: catalogue size, regions, average price "+
			"and most common vintage. Use for: 'how is the wine market looking'.",
		func(ctx *ai.ToolContext, input struct{}) (map[string]any, error) {
			overview, err := store.MarketOverview(ctx)
			if err != nil {
				logger.Error("market overview failed", "error", err)
				return errResult("the wine catalogue is unavailable right now"), nil
			}
			if st := StateFrom(ctx); st != nil {
				st.SetScene(Scene{Kind: SceneMarket, Payload: overview})
			}
			return map[string]any{
				"totalWines":   overview.TotalWines,
				"totalRegions": overview.TotalRegions,
				"avgPrice":     overview.AvgPrice,
				"topVintage":   overview.TopVintage,
				"topRegions":   overview.TopRegions,
			}, nil
		},
	)
}

// investReturn fetches the wine's five-year return figure, tolerating lookup
// failure since the projection has a sensible fallback.
func investReturn(store Catalog, ctx *ai.ToolContext, id int64) *float64 {
	trend, err := store.PriceHistory(ctx, id, "")
	if err != nil {
		return nil
	}
	return trend.FiveYearReturn
}
