package tools

import (
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/aionysus/dionysus/internal/log"
)

// registerPreferenceTools registers the preference capture tool.
func registerPreferenceTools(g *genkit.Genkit, prefs PreferenceWriter, logger log.Logger) {
	genkit.DefineTool(
		g,
		"saveWinePreference",
		"Remember a wine preference the user states, so future conversations "+
			"can use it. The user is identified from the session, never from the "+
			"conversation text. "+
			"Use for: 'I love Burgundy', 'no tannic reds for me', favourite grapes or budgets.",
		func(ctx *ai.ToolContext, input struct {
			PreferenceType string `json:"preferenceType" jsonschema_description:"Category of the preference (e.g. 'region', 'grape', 'style', 'budget', 'dislike')."`
			Value          string `json:"value" jsonschema_description:"The preference itself (e.g. 'Burgundy', 'no heavy tannins', 'under 50 GBP')."`
		},
		) (map[string]any, error) {
			prefType := strings.TrimSpace(input.PreferenceType)
			value := strings.TrimSpace(input.Value)
			if prefType == "" || value == "" {
				return errResult("both the preference type and value are required"), nil
			}

			var userID string
			if st := StateFrom(ctx); st != nil {
				userID = st.UserID()
			}
			res := prefs.AppendFact(ctx, userID, prefType, value)
			if !res.Saved {
				logger.Info("preference not saved", "reason", res.Message)
				return errResult(res.Message), nil
			}
			return map[string]any{
				"saved":          true,
				"preferenceType": res.PreferenceType,
				"value":          res.Value,
			}, nil
		},
	)
}
