// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-search/internal/semantic"
	"github.com/pdiddy/paper-search/pkg/types"
)

type fakeIndex struct {
	ranked []types.Paper // relevance order for Search and SearchPhrase
	byID   map[string]types.Paper

	lastLimit    int
	lastDistance int
	phraseCalled bool
}

func (f *fakeIndex) Search(_ context.Context, _ string, limit int) ([]types.Paper, error) {
	f.lastLimit = limit
	if limit > len(f.ranked) {
		limit = len(f.ranked)
	}
	return f.ranked[:limit], nil
}

func (f *fakeIndex) SearchPhrase(_ context.Context, _ string, distance, limit int) ([]types.Paper, error) {
	f.phraseCalled = true
	f.lastDistance = distance
	if limit > len(f.ranked) {
		limit = len(f.ranked)
	}
	return f.ranked[:limit], nil
}

func (f *fakeIndex) ByID(_ context.Context, id string) (types.Paper, error) {
	paper, ok := f.byID[id]
	if !ok {
		return types.Paper{}, fmt.Errorf("paper %s: not found", id)
	}
	return paper, nil
}

type fakeSemantic struct {
	hits     []semantic.Hit
	lastTopK int
}

func (f *fakeSemantic) Search(_ context.Context, _ string, topK int) ([]semantic.Hit, error) {
	f.lastTopK = topK
	if topK > len(f.hits) {
		topK = len(f.hits)
	}
	return f.hits[:topK], nil
}

type fakeCitations struct {
	mu     sync.Mutex
	counts map[string]int
	fail   map[string]bool
	calls  []string
}

func (f *fakeCitations) Fetch(_ context.Context, id string) (types.CitationInfo, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()

	if f.fail[id] {
		return types.CitationInfo{}, fmt.Errorf("upstream unavailable")
	}
	return types.CitationInfo{CitationCount: f.counts[id]}, nil
}

type fakeRelated struct {
	m map[string][]string
}

func (f *fakeRelated) RelatedTo(id string) ([]string, error) {
	ids, ok := f.m[id]
	if !ok {
		return nil, fmt.Errorf("paper %s: no cluster", id)
	}
	return ids, nil
}

func rankedPapers(n int) []types.Paper {
	papers := make([]types.Paper, n)
	for i := range papers {
		papers[i] = types.Paper{
			ID:    fmt.Sprintf("p%02d", i+1),
			Title: fmt.Sprintf("Paper %02d", i+1),
		}
	}
	return papers
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	o := New(&fakeIndex{}, nil, nil, nil, types.SearchConfig{}, nil)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := o.Search(context.Background(), Request{Query: query})
		assert.Error(t, err, "query %q", query)
	}
}

func TestSearchRejectsNegativePage(t *testing.T) {
	o := New(&fakeIndex{}, nil, nil, nil, types.SearchConfig{}, nil)

	_, err := o.Search(context.Background(), Request{Query: "x", Page: -1})
	assert.Error(t, err)
}

func TestLexicalPagination(t *testing.T) {
	idx := &fakeIndex{ranked: rankedPapers(25)}
	o := New(idx, nil, nil, nil, types.SearchConfig{}, nil)

	out, err := o.Search(context.Background(), Request{Query: "q", Page: 1, PageSize: 10})
	require.NoError(t, err)

	// Page 1 of size 10 fetches 20 candidates and keeps the second ten.
	assert.Equal(t, 20, idx.lastLimit)
	require.Len(t, out.Results, 10)
	assert.Equal(t, "p11", out.Results[0].ID)
	assert.Equal(t, "p20", out.Results[9].ID)
}

func TestLexicalPageBeyondResults(t *testing.T) {
	idx := &fakeIndex{ranked: rankedPapers(3)}
	o := New(idx, nil, nil, nil, types.SearchConfig{}, nil)

	out, err := o.Search(context.Background(), Request{Query: "q", Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, out.Results)
}

func TestProximityDistance(t *testing.T) {
	idx := &fakeIndex{ranked: rankedPapers(1)}
	o := New(idx, nil, nil, nil, types.SearchConfig{ProximityDistance: 4}, nil)

	_, err := o.Search(context.Background(), Request{Query: "q", Proximity: true})
	require.NoError(t, err)
	assert.True(t, idx.phraseCalled)
	assert.Equal(t, 4, idx.lastDistance)

	// An explicit request distance overrides the configured one.
	_, err = o.Search(context.Background(), Request{Query: "q", Proximity: true, ProximityDistance: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, idx.lastDistance)
}

func TestCitationReRankOfPage(t *testing.T) {
	idx := &fakeIndex{ranked: rankedPapers(3)}
	cit := &fakeCitations{counts: map[string]int{"p01": 5, "p02": 50, "p03": 20}}
	o := New(idx, nil, cit, nil, types.SearchConfig{}, nil)

	out, err := o.Search(context.Background(), Request{Query: "q", PageSize: 10})
	require.NoError(t, err)

	require.Len(t, out.Results, 3)
	assert.Equal(t, "p02", out.Results[0].ID)
	assert.Equal(t, "p03", out.Results[1].ID)
	assert.Equal(t, "p01", out.Results[2].ID)
	require.NotNil(t, out.Results[0].CitationInfo)
	assert.Equal(t, 50, out.Results[0].CitationInfo.CitationCount)
}

func TestCitationReRankIsStableOnTies(t *testing.T) {
	idx := &fakeIndex{ranked: rankedPapers(3)}
	cit := &fakeCitations{counts: map[string]int{"p01": 7, "p02": 7, "p03": 7}}
	o := New(idx, nil, cit, nil, types.SearchConfig{}, nil)

	out, err := o.Search(context.Background(), Request{Query: "q", PageSize: 10})
	require.NoError(t, err)

	// Equal counts keep retrieval order.
	require.Len(t, out.Results, 3)
	assert.Equal(t, "p01", out.Results[0].ID)
	assert.Equal(t, "p02", out.Results[1].ID)
	assert.Equal(t, "p03", out.Results[2].ID)
}

func TestEnrichmentFailureDegrades(t *testing.T) {
	idx := &fakeIndex{ranked: rankedPapers(3)}
	cit := &fakeCitations{
		counts: map[string]int{"p02": 9, "p03": 3},
		fail:   map[string]bool{"p01": true},
	}
	var warnings bytes.Buffer
	o := New(idx, nil, cit, nil, types.SearchConfig{}, &warnings)

	out, err := o.Search(context.Background(), Request{Query: "q", PageSize: 10})
	require.NoError(t, err)

	// The failed paper stays on the page with no citation data and sorts
	// after every enriched paper.
	require.Len(t, out.Results, 3)
	assert.Equal(t, "p02", out.Results[0].ID)
	assert.Equal(t, "p03", out.Results[1].ID)
	assert.Equal(t, "p01", out.Results[2].ID)
	assert.Nil(t, out.Results[2].CitationInfo)
	assert.Contains(t, warnings.String(), "p01")
}

func TestEnrichmentOnlyCoversThePage(t *testing.T) {
	idx := &fakeIndex{ranked: rankedPapers(20)}
	cit := &fakeCitations{counts: map[string]int{}}
	o := New(idx, nil, cit, nil, types.SearchConfig{}, nil)

	_, err := o.Search(context.Background(), Request{Query: "q", Page: 1, PageSize: 5})
	require.NoError(t, err)

	// Only the five papers on page 1 are enriched, not all 10 fetched.
	assert.Len(t, cit.calls, 5)
	assert.ElementsMatch(t, []string{"p06", "p07", "p08", "p09", "p10"}, cit.calls)
}

func TestSemanticWindowDropsStaleIDs(t *testing.T) {
	papers := rankedPapers(5)
	byID := make(map[string]types.Paper)
	for _, p := range papers {
		if p.ID == "p02" {
			continue // removed from the lexical index after embedding
		}
		byID[p.ID] = p
	}
	idx := &fakeIndex{byID: byID}
	sem := &fakeSemantic{hits: []semantic.Hit{
		{ID: "p01", Score: 0.9},
		{ID: "p02", Score: 0.8},
		{ID: "p03", Score: 0.7},
		{ID: "p04", Score: 0.6},
	}}
	var warnings bytes.Buffer
	o := New(idx, sem, nil, nil, types.SearchConfig{}, &warnings)

	out, err := o.Search(context.Background(), Request{Query: "q", PageSize: 3, Semantic: true})
	require.NoError(t, err)

	assert.Equal(t, 3, sem.lastTopK)
	// The stale id shrinks the page; later hits do not slide forward.
	require.Len(t, out.Results, 2)
	assert.Equal(t, "p01", out.Results[0].ID)
	assert.Equal(t, "p03", out.Results[1].ID)
	assert.Contains(t, warnings.String(), "p02")
}

func TestSemanticPageBeyondHits(t *testing.T) {
	idx := &fakeIndex{byID: map[string]types.Paper{}}
	sem := &fakeSemantic{hits: []semantic.Hit{{ID: "p01"}}}
	o := New(idx, sem, nil, nil, types.SearchConfig{}, nil)

	out, err := o.Search(context.Background(), Request{Query: "q", Page: 3, PageSize: 10, Semantic: true})
	require.NoError(t, err)
	assert.Empty(t, out.Results)
}

func TestSemanticNotConfigured(t *testing.T) {
	o := New(&fakeIndex{}, nil, nil, nil, types.SearchConfig{}, nil)

	_, err := o.Search(context.Background(), Request{Query: "q", Semantic: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRelated(t *testing.T) {
	papers := rankedPapers(4)
	byID := map[string]types.Paper{
		"p01": papers[0], "p02": papers[1], "p03": papers[2],
	}
	rel := &fakeRelated{m: map[string][]string{
		"p01": {"p02", "p03", "p04"},
	}}
	var warnings bytes.Buffer
	o := New(&fakeIndex{byID: byID}, nil, nil, rel, types.SearchConfig{}, &warnings)

	got, err := o.Related(context.Background(), "p01")
	require.NoError(t, err)

	// p04 has a cluster assignment but no indexed paper.
	require.Len(t, got, 2)
	assert.Equal(t, "p02", got[0].ID)
	assert.Equal(t, "p03", got[1].ID)
	assert.Contains(t, warnings.String(), "p04")
}

func TestRelatedNotConfigured(t *testing.T) {
	o := New(&fakeIndex{}, nil, nil, nil, types.SearchConfig{}, nil)

	_, err := o.Related(context.Background(), "p01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestRelatedUnknownID(t *testing.T) {
	rel := &fakeRelated{m: map[string][]string{}}
	o := New(&fakeIndex{}, nil, nil, rel, types.SearchConfig{}, nil)

	_, err := o.Related(context.Background(), "unknown")
	assert.Error(t, err)
}
