// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus builds a frequency and co-occurrence model from a static
// background corpus and uses it to score candidate phrases for domain
// significance.
// Implements: prd003-terms (R1-R3);
//
//	docs/ARCHITECTURE.md § Corpus Statistics.
package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Model holds the corpus statistics. It is built once at startup and
// read-only afterwards; every probability below divides by totalTerms, which
// equals the sum of all per-line token counts seen during load.
type Model struct {
	termFrequency map[string]int
	coOccurrence  map[string]int
	totalTerms    int
}

// pairSeparator joins the two tokens of a co-occurrence key. It must match
// the separator WordNGrams uses to build candidate phrases.
const pairSeparator = " "

// Load reads a whitespace-tokenized corpus file line by line. For each line
// it tallies single-token frequencies and, for every positional pair
// (i < j), the pair frequency. A missing or unreadable file is a fatal
// startup error for the engine.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file %s: %w", path, err)
	}
	defer f.Close()

	m := &Model{
		termFrequency: make(map[string]int),
		coOccurrence:  make(map[string]int),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		for _, tok := range tokens {
			m.termFrequency[tok]++
			m.totalTerms++
		}
		for i := 0; i < len(tokens); i++ {
			for j := i + 1; j < len(tokens); j++ {
				m.coOccurrence[tokens[i]+pairSeparator+tokens[j]]++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus file %s: %w", path, err)
	}
	return m, nil
}

// TotalTerms returns the corpus token count used as the probability
// denominator.
func (m *Model) TotalTerms() int { return m.totalTerms }

// JointProbability estimates how likely the exact phrase co-occurs in the
// corpus: coOccurrence[phrase] / totalTerms, zero for unseen phrases.
func (m *Model) JointProbability(phrase string) float64 {
	if m.totalTerms == 0 {
		return 0
	}
	return float64(m.coOccurrence[phrase]) / float64(m.totalTerms)
}

// IndependentProbability is the independence baseline: the product over each
// constituent word of termFrequency[word]/totalTerms, with unseen words
// smoothed to a count of 1.
func (m *Model) IndependentProbability(phrase string) float64 {
	if m.totalTerms == 0 {
		return 0
	}
	probability := 1.0
	for _, word := range strings.Fields(phrase) {
		count := m.termFrequency[word]
		if count == 0 {
			count = 1
		}
		probability *= float64(count) / float64(m.totalTerms)
	}
	return probability
}
