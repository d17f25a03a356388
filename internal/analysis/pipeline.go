// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis implements the deterministic token-normalization chain
// applied to every text field before indexing: tokenize, lowercase, stop-word
// removal, lemmatization, and field-dependent n-gram expansion.
// Implements: prd002-analysis (R1-R4);
//
//	docs/ARCHITECTURE.md § Text Analysis.
package analysis

import (
	"fmt"
	"strings"
	"unicode"
)

// Field selects the final shaping step of the chain.
type Field int

const (
	// FieldTitle expands tokens into edge n-grams anchored at the token
	// start, which backs prefix autocomplete on titles.
	FieldTitle Field = iota

	// FieldGeneric expands tokens into contiguous character n-grams, which
	// backs fuzzy matching on summaries, authors, and comments.
	FieldGeneric
)

// N-gram bounds for the two field shapes. The title bounds support prefixes
// of 2-5 characters; the generic bounds match Lucene's classic fuzzy setup.
const (
	TitleEdgeMin = 2
	TitleEdgeMax = 5

	GenericNGramMin = 2
	GenericNGramMax = 3
)

// Pipeline is the analysis chain. It is a pure function of its input: the
// same text and field always produce the same token sequence. The only
// loaded state is the lemmatizer model, which is immutable after startup.
type Pipeline struct {
	lem Lemmatizer
}

// NewPipeline returns a pipeline backed by the given lemmatizer. The
// lemmatizer is mandatory; the chain cannot operate without it.
func NewPipeline(lem Lemmatizer) (*Pipeline, error) {
	if lem == nil {
		return nil, fmt.Errorf("analysis: lemmatizer model is required")
	}
	return &Pipeline{lem: lem}, nil
}

// Analyze runs the full chain on text and returns the normalized tokens for
// the given field shape.
func (p *Pipeline) Analyze(text string, field Field) []string {
	base := p.BaseTokens(text)
	if len(base) == 0 {
		return nil
	}

	var out []string
	for _, tok := range base {
		switch field {
		case FieldTitle:
			out = append(out, edgeNGrams(tok, TitleEdgeMin, TitleEdgeMax)...)
		default:
			out = append(out, charNGrams(tok, GenericNGramMin, GenericNGramMax)...)
		}
	}
	return out
}

// BaseTokens runs the chain through lemmatization only, without n-gram
// expansion. Query-side phrase analysis and the domain-term extractor build
// on these tokens.
func (p *Pipeline) BaseTokens(text string) []string {
	raw := tokenize(text)
	if len(raw) == 0 {
		return nil
	}

	kept := raw[:0]
	for _, tok := range raw {
		tok = strings.ToLower(tok)
		if isStopWord(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return nil
	}
	return p.lem.Lemmatize(kept)
}

// tokenize splits text on Unicode word boundaries: any run of letters or
// digits is a token, everything else is a separator.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
