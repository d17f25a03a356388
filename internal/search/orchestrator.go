// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search runs federated queries: lexical or semantic retrieval,
// citation enrichment, and the final citation-weighted ordering of the
// requested page.
// Implements: prd009-search (R1-R6);
//
//	docs/ARCHITECTURE.md § Search Orchestration.
package search

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/paper-search/internal/semantic"
	"github.com/pdiddy/paper-search/pkg/types"
)

// Index is the slice of the lexical store the orchestrator needs.
type Index interface {
	Search(ctx context.Context, query string, limit int) ([]types.Paper, error)
	SearchPhrase(ctx context.Context, query string, distance, limit int) ([]types.Paper, error)
	ByID(ctx context.Context, id string) (types.Paper, error)
}

// SemanticSearcher returns similarity-ranked ids, best-first.
type SemanticSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]semantic.Hit, error)
}

// CitationFetcher returns citation data for one paper id.
type CitationFetcher interface {
	Fetch(ctx context.Context, arxivID string) (types.CitationInfo, error)
}

// RelatedLookup returns the ids sharing a paper's topic cluster.
type RelatedLookup interface {
	RelatedTo(id string) ([]string, error)
}

const (
	defaultPageSize          = 10
	defaultProximityDistance = 10
)

// Request is one search invocation. Page is zero-based; zero values for
// PageSize and ProximityDistance take the configured defaults.
type Request struct {
	Query             string
	Page              int
	PageSize          int
	Proximity         bool
	ProximityDistance int
	Semantic          bool
}

// Output is one result page. Papers carry CitationInfo when enrichment
// succeeded for them and a nil CitationInfo otherwise.
type Output struct {
	Results  []types.Paper
	Page     int
	PageSize int
}

// Orchestrator composes the retrieval backends. The semantic searcher,
// citation fetcher, and related lookup are each optional: a nil backend
// disables that capability and the rest keep working.
type Orchestrator struct {
	index     Index
	semantic  SemanticSearcher
	citations CitationFetcher
	related   RelatedLookup
	cfg       types.SearchConfig
	warnings  io.Writer
}

// New wires the orchestrator. warnings receives one line per degraded
// backend call; pass io.Discard to silence them.
func New(index Index, sem SemanticSearcher, cit CitationFetcher, rel RelatedLookup, cfg types.SearchConfig, warnings io.Writer) *Orchestrator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.ProximityDistance <= 0 {
		cfg.ProximityDistance = defaultProximityDistance
	}
	if warnings == nil {
		warnings = io.Discard
	}
	return &Orchestrator{
		index:     index,
		semantic:  sem,
		citations: cit,
		related:   rel,
		cfg:       cfg,
		warnings:  warnings,
	}
}

// Search retrieves the requested page. Retrieval fetches (page+1)×pageSize
// candidates so relevance order stays stable across pages, slices out the
// requested window, enriches it with citation data, and re-orders the page
// by descending citation count. Papers the enrichment could not reach keep
// their retrieval position relative to other unenriched papers.
func (o *Orchestrator) Search(ctx context.Context, req Request) (Output, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Output{}, fmt.Errorf("query is empty")
	}
	if req.Page < 0 {
		return Output{}, fmt.Errorf("page must not be negative, got %d", req.Page)
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = o.cfg.PageSize
	}
	fetchLimit := (req.Page + 1) * pageSize

	var (
		page []types.Paper
		err  error
	)
	if req.Semantic {
		page, err = o.semanticPage(ctx, query, req.Page, pageSize, fetchLimit)
	} else {
		page, err = o.lexicalPage(ctx, query, req, pageSize, fetchLimit)
	}
	if err != nil {
		return Output{}, err
	}

	o.enrich(ctx, page)

	// Citation-weighted ordering of the page. The stable sort keeps
	// retrieval order among equal counts.
	sort.SliceStable(page, func(i, j int) bool {
		return page[i].CitationCount() > page[j].CitationCount()
	})

	return Output{Results: page, Page: req.Page, PageSize: pageSize}, nil
}

func (o *Orchestrator) lexicalPage(ctx context.Context, query string, req Request, pageSize, fetchLimit int) ([]types.Paper, error) {
	var (
		papers []types.Paper
		err    error
	)
	if req.Proximity {
		distance := req.ProximityDistance
		if distance <= 0 {
			distance = o.cfg.ProximityDistance
		}
		papers, err = o.index.SearchPhrase(ctx, query, distance, fetchLimit)
	} else {
		papers, err = o.index.Search(ctx, query, fetchLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	start := req.Page * pageSize
	if start >= len(papers) {
		return nil, nil
	}
	return papers[start:], nil
}

// semanticPage slices the hit window before resolving ids, so a hit that
// dropped out of the lexical index shrinks the page rather than pulling the
// next hit forward.
func (o *Orchestrator) semanticPage(ctx context.Context, query string, pageNum, pageSize, fetchLimit int) ([]types.Paper, error) {
	if o.semantic == nil {
		return nil, fmt.Errorf("semantic search is not configured")
	}

	hits, err := o.semantic.Search(ctx, query, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	start := pageNum * pageSize
	if start >= len(hits) {
		return nil, nil
	}
	window := hits[start:]

	var page []types.Paper
	for _, hit := range window {
		paper, err := o.index.ByID(ctx, hit.ID)
		if err != nil {
			// Stale embedding: the id was removed from the index after the
			// sidecar stored it.
			fmt.Fprintf(o.warnings, "warning: semantic hit %s not in index, skipping\n", hit.ID)
			continue
		}
		page = append(page, paper)
	}
	return page, nil
}

// enrich attaches citation data to each paper on the page, fetching
// concurrently. Failures degrade to a nil CitationInfo with a warning; a
// page never fails because the citation API did.
func (o *Orchestrator) enrich(ctx context.Context, page []types.Paper) {
	if o.citations == nil || len(page) == 0 {
		return
	}

	infos := make([]*types.CitationInfo, len(page))
	var wg sync.WaitGroup
	for i := range page {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info, err := o.citations.Fetch(ctx, page[i].ID)
			if err != nil {
				fmt.Fprintf(o.warnings, "warning: citation lookup for %s failed: %v\n", page[i].ID, err)
				return
			}
			infos[i] = &info
		}(i)
	}
	wg.Wait()

	for i := range page {
		page[i].CitationInfo = infos[i]
	}
}

// Related returns the papers sharing id's topic cluster, resolved against
// the index. Ids without an indexed paper are skipped with a warning.
func (o *Orchestrator) Related(ctx context.Context, id string) ([]types.Paper, error) {
	if o.related == nil {
		return nil, fmt.Errorf("cluster snapshot is not configured")
	}

	ids, err := o.related.RelatedTo(id)
	if err != nil {
		return nil, err
	}

	var papers []types.Paper
	for _, relID := range ids {
		paper, err := o.index.ByID(ctx, relID)
		if err != nil {
			fmt.Fprintf(o.warnings, "warning: related paper %s not in index, skipping\n", relID)
			continue
		}
		papers = append(papers, paper)
	}
	return papers, nil
}
