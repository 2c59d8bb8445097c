package lexical

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
			name:  "store number and punctuation",
			input: "Trader Joe's #412",
			want:  "traderjoes412",
		},
		{
			name:  "already normalized",
			input: "starbucks",
			want:  "starbucks",
		},
		{
			name:  "mixed case with spaces",
			input: "Whole Foods Market",
			want:  "wholefoodsmarket",
		},
		{
			name:  "card terminal noise",
			input: "SQ *BLUE BOTTLE COFFEE",
			want:  "sqbluebottlecoffee",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "***",
			want:  "",
		},
		{
			name:  "unicode stripped",
			input: "Café Olé",
			want:  "cafol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.want, got)

			// Normalization is idempotent.
			assert.Equal(t, got, Normalize(got))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "words split on spaces",
			input: "City Coffee Shop",
			want:  []string{"city", "coffee", "shop"},
		},
		{
			name:  "punctuation splits",
			input: "Joe's Bar & Grill #7",
			want:  []string{"joe", "s", "bar", "grill", "7"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only separators",
			input: " -- ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
