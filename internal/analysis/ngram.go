// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

// edgeNGrams returns the character n-grams of length min..max anchored at
// the start of tok. When the token's length falls outside [min, max] the
// original token is appended as well, so exact-term queries keep matching.
func edgeNGrams(tok string, min, max int) []string {
	runes := []rune(tok)
	n := len(runes)

	var out []string
	for size := min; size <= max && size <= n; size++ {
		out = append(out, string(runes[:size]))
	}
	if n < min || n > max {
		out = append(out, tok)
	}
	return out
}

// charNGrams returns every contiguous character n-gram of length min..max
// within tok, in position-then-length order, with the same original-token
// preservation rule as edgeNGrams.
func charNGrams(tok string, min, max int) []string {
	runes := []rune(tok)
	n := len(runes)

	var out []string
	for i := 0; i < n; i++ {
		for size := min; size <= max && i+size <= n; size++ {
			out = append(out, string(runes[i:i+size]))
		}
	}
	if n < min || n > max {
		out = append(out, tok)
	}
	return out
}

// WordNGrams joins contiguous runs of min..max tokens with single spaces.
// The domain-term extractor uses it to form candidate phrases.
func WordNGrams(tokens []string, min, max int) []string {
	var out []string
	for size := min; size <= max; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			phrase := tokens[i]
			for _, t := range tokens[i+1 : i+size] {
				phrase += " " + t
			}
			out = append(out, phrase)
		}
	}
	return out
}
