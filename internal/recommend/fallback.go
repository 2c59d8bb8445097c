package recommend

import "github.com/centavo-app/centavo/internal/model"

// FallbackConfidence is the fixed confidence attached to static fallback
// recommendations.
const FallbackConfidence = 0.5

// fallbackTable maps well-known categories to a default replacement when the
// engine has no signal. Anything unlisted falls back to Miscellaneous.
var fallbackTable = map[string]string{
	"Food and Drink": "Groceries",
	"Travel":         "Transportation",
	"Shops":          "Shopping",
	"Recreation":     "Entertainment",
	"Service":        "Miscellaneous",
}

// Fallback returns the static recommendation for a category the engine
// could not rank: the table entry when one exists, otherwise Miscellaneous,
// with fixed confidence and zero similarity.
func Fallback(categoryToOverwrite string) *model.Recommendation {
	replacement, ok := fallbackTable[categoryToOverwrite]
	if !ok {
		replacement = "Miscellaneous"
	}

	return &model.Recommendation{
		RecommendedCategory: replacement,
		Confidence:          FallbackConfidence,
		Similarity:          0,
	}
}
