package lexical

import (
	"github.com/centavo-app/centavo/internal/service"
)

// Expander produces the deduplicated set of lexical synonyms for a merchant
// name by querying a SynonymSource for every token across all parts of
// speech. Expansion is deterministic for a deterministic source.
type Expander struct {
	source service.SynonymSource
}

// NewExpander creates an expander backed by the given synonym source.
func NewExpander(source service.SynonymSource) *Expander {
	return &Expander{source: source}
}

// Expand tokenizes the merchant name and unions the synonyms of every token
// across noun, verb, adjective and adverb queries. Results are deduplicated
// in first-seen order. An empty token list yields an empty set.
func (e *Expander) Expand(merchantName string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, word := range Tokenize(merchantName) {
		for _, pos := range service.PartsOfSpeech {
			for _, syn := range e.source.Synonyms(word, pos) {
				if _, ok := seen[syn]; ok {
					continue
				}
				seen[syn] = struct{}{}
				out = append(out, syn)
			}
		}
	}

	return out
}
