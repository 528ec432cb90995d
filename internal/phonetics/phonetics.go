// Package phonetics corrects spoken mis-renderings of wine terms.
//
// Voice transcription mangles wine vocabulary ("shard oh nay", "bore dough").
// Normalize rewrites those renderings to their canonical spellings before any
// database lookup or identity pattern matching runs on the text.
package phonetics

import "strings"

// correction is a single phonetic rendering and its canonical spelling.
type correction struct {
	spoken    string
	canonical string
}

// corrections is applied in slice order. Order is load-bearing: some keys are
// substrings of others ("so vin yon blonk" vs "so vin yon"), so the longer,
// more specific phrase must come before the word it contains. Keep it that way
// when adding entries.
var corrections = []correction{
	{"bow jo lay", "beaujolais"},
	{"bo jo lay", "beaujolais"},
	{"shard oh nay", "chardonnay"},
	{"shar doe nay", "chardonnay"},
	{"pin oh noir", "pinot noir"},
	{"pee no nwar", "pinot noir"},
	{"pin oh gree", "pinot grigio"},
	{"bor doh", "bordeaux"},
	{"bore dough", "bordeaux"},
	{"burr gun dee", "burgundy"},
	{"burgan dee", "burgundy"},
	{"cabernet so vin yon", "cabernet sauvignon"},
	{"cab er nay", "cabernet"},
	{"mare low", "merlot"},
	{"mer lot", "merlot"},
	{"ree oz ling", "riesling"},
	{"reece ling", "riesling"},
	{"so vin yon blonk", "sauvignon blanc"},
	{"so vin yon", "sauvignon"},
	{"san sair", "sancerre"},
	{"shah blee", "chablis"},
	{"sha blee", "chablis"},
	{"mo zell", "moselle"},
	{"rum on ay con tee", "romanée-conti"},
	{"pet roos", "petrus"},
	{"shah toe", "chateau"},
	{"sha toe", "chateau"},
	{"doe main", "domaine"},
	{"tan nan", "tannat"},
	{"mall beck", "malbec"},
	{"groo nair", "grüner"},
	{"tem pran ee oh", "tempranillo"},
	{"neb ee oh low", "nebbiolo"},
	{"bar oh low", "barolo"},
	{"bar bar es co", "barbaresco"},
	{"kee an tee", "chianti"},
	{"bru nell oh", "brunello"},
	{"pro sec oh", "prosecco"},
	{"sham pain", "champagne"},
	{"ross ay", "rosé"},
}

// Normalize lowercases text and replaces every known phonetic rendering with
// its canonical spelling. Pure and total: unmatched text passes through
// unchanged apart from the lowercasing.
func Normalize(text string) string {
	result := strings.ToLower(text)
	for _, c := range corrections {
		result = strings.ReplaceAll(result, c.spoken, c.canonical)
	}
	return result
}
