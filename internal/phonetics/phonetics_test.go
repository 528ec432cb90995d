package phonetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single term",
			input: "I love Shard Oh Nay",
			want:  "i love chardonnay",
		},
		{
			name:  "region",
			input: "something from Bore Dough please",
			want:  "something from bordeaux please",
		},
		{
			name:  "phrase before contained word",
			input: "a nice so vin yon blonk",
			want:  "a nice sauvignon blanc",
		},
		{
			name:  "bare contained word still corrected",
			input: "a so vin yon from the loire",
			want:  "a sauvignon from the loire",
		},
		{
			name:  "multiple corrections in one sentence",
			input: "Pee No Nwar or Sham Pain",
			want:  "pinot noir or champagne",
		},
		{
			name:  "unmatched text only lowercased",
			input: "Tell Me About Rioja",
			want:  "tell me about rioja",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

// Normalizing already-normalized text must be a no-op.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"i love chardonnay",
		"a nice sauvignon blanc from bordeaux",
		"pee no nwar with dinner",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

// Every canonical spelling must survive normalization unchanged; a canonical
// term that matches a spoken key would make the table self-corrupting.
func TestNormalize_CanonicalFormsStable(t *testing.T) {
	for _, c := range corrections {
		assert.Equal(t, c.canonical, Normalize(c.canonical))
	}
}
