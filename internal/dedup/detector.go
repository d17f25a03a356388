// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup flags near-duplicate papers before they reach the index and
// keeps an append-only audit log of every rejected pairing.
// Implements: prd004-dedup (R1-R4);
//
//	docs/ARCHITECTURE.md § Duplicate Detection.
package dedup

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/paper-search/pkg/types"
)

// Shingle comparison policy. Both values are contractual: the boundary
// behavior at exactly 0.85 is tested and tuning either changes which papers
// get rejected.
const (
	// ShingleSize is the character length of each shingle.
	ShingleSize = 3

	// SimilarityThreshold is the Jaccard similarity at or above which a
	// candidate is flagged.
	SimilarityThreshold = 0.85
)

// IndexedSummary is the slice of an indexed document the detector compares
// against.
type IndexedSummary struct {
	ID      string
	Title   string
	Summary string
}

// SummarySource yields every indexed document's summary. The index store
// implements it.
type SummarySource interface {
	AllSummaries(ctx context.Context) ([]IndexedSummary, error)
}

// Recorder receives one DuplicateRecord per flagged candidate.
type Recorder interface {
	Append(ctx context.Context, rec types.DuplicateRecord) error
}

// Detector runs the shingle-based near-duplicate check. Each candidate is a
// full scan over the existing corpus — O(corpus size × document length) —
// so this sits on the batch ingestion path only, never on a query path, and
// it dominates ingestion throughput.
type Detector struct {
	src SummarySource
	log Recorder
}

// NewDetector wires the detector to its summary source and audit log.
func NewDetector(src SummarySource, log Recorder) *Detector {
	return &Detector{src: src, log: log}
}

// IsNearDuplicate compares the candidate's summary against every indexed
// summary and reports whether any reaches the similarity threshold. The scan
// stops at the first match, which is also recorded in the audit log.
func (d *Detector) IsNearDuplicate(ctx context.Context, candidate types.Paper) (bool, error) {
	candidateShingles := shingles(candidate.Summary)
	if len(candidateShingles) == 0 {
		// Empty or whitespace-only summaries never match anything.
		return false, nil
	}

	existing, err := d.src.AllSummaries(ctx)
	if err != nil {
		return false, err
	}

	for _, doc := range existing {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		sim := jaccard(candidateShingles, shingles(doc.Summary))
		if sim < SimilarityThreshold {
			continue
		}

		rec := types.DuplicateRecord{
			Candidate:     candidate,
			ExistingID:    doc.ID,
			ExistingTitle: doc.Title,
			Similarity:    sim,
			FlaggedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		if err := d.log.Append(ctx, rec); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

// shingles returns the set of contiguous ShingleSize-rune substrings of the
// text with all whitespace stripped and letters lowercased. Texts shorter
// than one shingle produce an empty set.
func shingles(text string) map[string]struct{} {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	runes := []rune(b.String())

	set := make(map[string]struct{})
	for i := 0; i+ShingleSize <= len(runes); i++ {
		set[string(runes[i:i+ShingleSize])] = struct{}{}
	}
	return set
}

// jaccard is |intersection| / |union| of the two shingle sets, defined as 0
// when either set is empty so a blank summary can never be flagged.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for s := range a {
		if _, ok := b[s]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
