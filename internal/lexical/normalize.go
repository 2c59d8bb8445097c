// Package lexical provides merchant-name normalization, string similarity
// and synonym expansion for fuzzy alias matching.
package lexical

import "strings"

// Normalize lowercases a merchant name and strips every character outside
// [a-z0-9]. It is pure, total and idempotent: bank feeds decorate merchant
// names with store numbers, punctuation and casing that must not affect
// alias identity ("Trader Joe's #412" -> "traderjoes412").
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize lowercases a merchant name and splits it on runs of
// non-alphanumeric characters, dropping empty tokens.
func Tokenize(name string) []string {
	return strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
}
