package model

// BusinessMatch is the result of an external taxonomy lookup: the canonical
// business name plus its category labels, ordered most specific first.
type BusinessMatch struct {
	Name       string
	Categories []string
}

// Categorization is the result of resolving a merchant name to a category.
// MatchedAlias holds the synonym that produced the match when the synonym
// path won; it is empty for exact cache hits and taxonomy matches.
type Categorization struct {
	Category     *Category
	MatchedAlias string
	Confidence   float64
}
