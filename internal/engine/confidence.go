package engine

import (
	"github.com/centavo-app/centavo/internal/lexical"
	"github.com/centavo-app/centavo/internal/model"
)

// ConfidenceScore rates how well an external taxonomy match fits a merchant
// name, in [0, 100]. Name similarity contributes up to 50 points; category
// specificity contributes the other 50, decaying 10 points per category
// beyond the first (fewer categories means a more specific business).
// A nil match scores 0.
func ConfidenceScore(merchantName string, match *model.BusinessMatch) float64 {
	if match == nil {
		return 0
	}

	score := lexical.Similarity(
		lexical.Normalize(merchantName),
		lexical.Normalize(match.Name),
	) * 50

	specificity := 50 - float64(len(match.Categories)-1)*10
	if specificity > 0 {
		score += specificity
	}

	if score > 100 {
		return 100
	}
	return score
}
