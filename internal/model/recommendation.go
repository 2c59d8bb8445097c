package model

// SimilarityResult identifies the other user whose recent merchant set has
// the highest Jaccard overlap with the target user's. It is recomputed per
// recommendation request and never persisted. A zero value means no similar
// user was found.
type SimilarityResult struct {
	MostSimilarUserID string
	Similarity        float64
}

// Found reports whether a similar user was identified.
func (r SimilarityResult) Found() bool {
	return r.MostSimilarUserID != "" && r.Similarity > 0
}

// WeightedCategoryScore accumulates the weighted evidence for one candidate
// replacement category within a single recommendation call.
type WeightedCategoryScore struct {
	Category          string
	UserWeight        float64
	SimilarUserWeight float64
	DBWeight          float64
	TotalWeight       float64
	Confidence        float64
	Count             int
}

// Recommendation is the ranked outcome of a recommendation request.
type Recommendation struct {
	RecommendedCategory string
	SimilarUserID       string
	Confidence          float64
	Similarity          float64
}
