// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"github.com/pdiddy/paper-search/internal/analysis"
)

// Dual-threshold test for domain significance. A phrase passes when its
// corpus co-occurrence likelihood is high while its independence baseline is
// low. Fixed policy values, not learned.
const (
	// MinJointProbability is the lower bound (exclusive) on JointProbability.
	MinJointProbability = 0.5

	// MaxIndependentProbability is the upper bound (exclusive) on
	// IndependentProbability.
	MaxIndependentProbability = 0.01
)

// Phrase n-gram bounds for candidate generation.
const (
	phraseMinTokens = 2
	phraseMaxTokens = 3
)

// Extractor derives domain-significant phrases from paper titles. Surviving
// phrases are indexed as a separate searchable field to sharpen specialist
// queries.
type Extractor struct {
	pipeline *analysis.Pipeline
	model    *Model
}

// NewExtractor wires the analysis chain to the corpus model.
func NewExtractor(pipeline *analysis.Pipeline, model *Model) *Extractor {
	return &Extractor{pipeline: pipeline, model: model}
}

// DomainTerms analyzes the title in the generic field shape, forms word
// n-grams of 2-3 tokens, and keeps the phrases that pass the dual-threshold
// test.
func (e *Extractor) DomainTerms(title string) []string {
	tokens := e.pipeline.Analyze(title, analysis.FieldGeneric)
	if len(tokens) == 0 {
		return nil
	}

	var terms []string
	for _, phrase := range analysis.WordNGrams(tokens, phraseMinTokens, phraseMaxTokens) {
		if e.significant(phrase) {
			terms = append(terms, phrase)
		}
	}
	return terms
}

func (e *Extractor) significant(phrase string) bool {
	return e.model.JointProbability(phrase) > MinJointProbability &&
		e.model.IndependentProbability(phrase) < MaxIndependentProbability
}
