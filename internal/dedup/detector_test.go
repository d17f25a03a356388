// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/pdiddy/paper-search/pkg/types"
)

type fakeSource struct {
	docs []IndexedSummary
	err  error
}

func (f *fakeSource) AllSummaries(context.Context) ([]IndexedSummary, error) {
	return f.docs, f.err
}

type fakeRecorder struct {
	records []types.DuplicateRecord
}

func (f *fakeRecorder) Append(_ context.Context, rec types.DuplicateRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func TestShingles(t *testing.T) {
	got := shingles("Ab cD")
	// Normalized text "abcd" → shingles abc, bcd.
	if len(got) != 2 {
		t.Fatalf("len(shingles) = %d, want 2", len(got))
	}
	for _, want := range []string{"abc", "bcd"} {
		if _, ok := got[want]; !ok {
			t.Errorf("shingles missing %q", want)
		}
	}
}

func TestShinglesShortAndBlank(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n", "ab"} {
		if got := shingles(text); len(got) != 0 {
			t.Errorf("shingles(%q) = %v, want empty", text, got)
		}
	}
}

// synthSet builds n distinct shingle-like strings under a shared prefix.
func synthSet(prefix string, n int) map[string]struct{} {
	set := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		set[fmt.Sprintf("%s%06d", prefix, i)] = struct{}{}
	}
	return set
}

func TestJaccard(t *testing.T) {
	a := map[string]struct{}{"abc": {}, "bcd": {}, "cde": {}}
	b := map[string]struct{}{"bcd": {}, "cde": {}, "def": {}}

	// Intersection 2, union 4.
	if got := jaccard(a, b); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("jaccard = %v, want 0.5", got)
	}
	if got := jaccard(a, a); got != 1.0 {
		t.Errorf("jaccard(self) = %v, want 1", got)
	}
	if got := jaccard(nil, a); got != 0 {
		t.Errorf("jaccard(empty, a) = %v, want 0", got)
	}
	if got := jaccard(a, nil); got != 0 {
		t.Errorf("jaccard(a, empty) = %v, want 0", got)
	}
}

func TestJaccardThresholdBoundary(t *testing.T) {
	// b is a subset of a, so union = |a| and intersection = |b|.
	shared := 17000
	a := synthSet("s", 20000)
	b := synthSet("s", shared)
	if got := jaccard(a, b); got != 0.85 {
		t.Fatalf("jaccard = %v, want exactly 0.85", got)
	}
	if 0.85 < SimilarityThreshold {
		t.Error("similarity of exactly 0.85 must reach the threshold")
	}

	// One shingle fewer lands just below the threshold.
	under := synthSet("s", shared-1)
	if got := jaccard(a, under); got >= SimilarityThreshold {
		t.Errorf("jaccard = %v, must stay below the threshold", got)
	}
}

func TestIsNearDuplicateFlagsAndRecords(t *testing.T) {
	const abstract = "We present a transformer model for protein folding that " +
		"outperforms prior approaches on standard benchmarks while using an " +
		"order of magnitude less training compute than existing systems."

	src := &fakeSource{docs: []IndexedSummary{
		{ID: "p1", Title: "First", Summary: "entirely unrelated text about databases"},
		{ID: "p2", Title: "Second", Summary: abstract},
		{ID: "p3", Title: "Third", Summary: abstract},
	}}
	rec := &fakeRecorder{}
	d := NewDetector(src, rec)

	// Same abstract, punctuation shuffled.
	candidate := types.Paper{
		ID:      "cand",
		Summary: "We present a transformer model, for protein folding, that " +
			"outperforms prior approaches on standard benchmarks while using an " +
			"order of magnitude less training compute than existing systems",
	}

	dup, err := d.IsNearDuplicate(context.Background(), candidate)
	if err != nil {
		t.Fatalf("IsNearDuplicate: %v", err)
	}
	if !dup {
		t.Fatal("candidate should be flagged as a near duplicate")
	}

	// Scan stops at the first match: p2, not p3.
	if len(rec.records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(rec.records))
	}
	r := rec.records[0]
	if r.ExistingID != "p2" {
		t.Errorf("ExistingID = %q, want p2 (first match wins)", r.ExistingID)
	}
	if r.Candidate.ID != "cand" {
		t.Errorf("Candidate.ID = %q, want cand", r.Candidate.ID)
	}
	if r.Similarity < SimilarityThreshold {
		t.Errorf("recorded similarity %v below threshold", r.Similarity)
	}
	if r.FlaggedAt == "" {
		t.Error("FlaggedAt should be set")
	}
}

func TestIsNearDuplicateDistinctText(t *testing.T) {
	src := &fakeSource{docs: []IndexedSummary{
		{ID: "p1", Summary: "A study of distributed consensus protocols."},
	}}
	rec := &fakeRecorder{}
	d := NewDetector(src, rec)

	dup, err := d.IsNearDuplicate(context.Background(), types.Paper{
		Summary: "Graph neural networks for molecule generation.",
	})
	if err != nil {
		t.Fatalf("IsNearDuplicate: %v", err)
	}
	if dup {
		t.Error("unrelated summary must not be flagged")
	}
	if len(rec.records) != 0 {
		t.Errorf("no records expected, got %d", len(rec.records))
	}
}

func TestIsNearDuplicateEmptySummary(t *testing.T) {
	src := &fakeSource{docs: []IndexedSummary{{ID: "p1", Summary: ""}}}
	rec := &fakeRecorder{}
	d := NewDetector(src, rec)

	for _, summary := range []string{"", "   \n\t"} {
		dup, err := d.IsNearDuplicate(context.Background(), types.Paper{Summary: summary})
		if err != nil {
			t.Fatalf("IsNearDuplicate(%q): %v", summary, err)
		}
		if dup {
			t.Errorf("blank summary %q must never be flagged", summary)
		}
	}

	// The source is never even consulted for blank candidates, and an indexed
	// blank summary cannot match a real one.
	dup, err := d.IsNearDuplicate(context.Background(), types.Paper{Summary: "some real text here"})
	if err != nil {
		t.Fatalf("IsNearDuplicate: %v", err)
	}
	if dup {
		t.Error("candidate must not match an indexed blank summary")
	}
}
