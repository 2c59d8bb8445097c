package lexical

// Similarity returns the Sørensen–Dice coefficient over character bigrams of
// a and b. It is symmetric, bounded in [0,1], returns 1 for identical
// strings and 0 when either string is shorter than two bytes (and not equal
// to the other).
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(a)-1)
	for i := 0; i < len(a)-1; i++ {
		bigrams[a[i:i+2]]++
	}

	matches := 0
	for i := 0; i < len(b)-1; i++ {
		bg := b[i : i+2]
		if bigrams[bg] > 0 {
			bigrams[bg]--
			matches++
		}
	}

	return 2 * float64(matches) / float64(len(a)+len(b)-2)
}
