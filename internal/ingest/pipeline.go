// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs the batch ingestion pipeline: for each harvested
// record it gates on id existence and near-duplicate similarity, extracts
// domain terms, indexes the paper, and pushes the accepted batch to the
// semantic sidecar.
// Implements: prd001-ingestion (R1-R5);
//
//	docs/ARCHITECTURE.md § Ingestion.
package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/paper-search/internal/semantic"
	"github.com/pdiddy/paper-search/pkg/types"
)

// Store is the slice of the lexical index the pipeline needs.
type Store interface {
	Exists(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, paper types.Paper, domainTerms []string) (bool, error)
}

// DuplicateChecker flags candidates too similar to an indexed paper.
type DuplicateChecker interface {
	IsNearDuplicate(ctx context.Context, candidate types.Paper) (bool, error)
}

// TermExtractor produces domain terms from a title.
type TermExtractor interface {
	DomainTerms(title string) []string
}

// SemanticIndexer receives accepted papers for embedding.
type SemanticIndexer interface {
	IndexDocuments(ctx context.Context, docs []semantic.Document) error
}

// Summary holds the outcome of one batch run.
type Summary struct {
	Indexed    int
	Skipped    int
	Duplicates int
	Failed     int
}

// Total returns the number of records processed.
func (s Summary) Total() int {
	return s.Indexed + s.Skipped + s.Duplicates + s.Failed
}

// Pipeline is the batch ingestion pipeline. The term extractor and the
// semantic indexer are optional; without them papers are indexed with no
// domain terms and no embeddings.
type Pipeline struct {
	store    Store
	dedup    DuplicateChecker
	terms    TermExtractor
	semantic SemanticIndexer
	progress io.Writer
}

// New wires the pipeline. progress receives one line per record outcome;
// pass io.Discard to silence it.
func New(store Store, dedup DuplicateChecker, terms TermExtractor, sem SemanticIndexer, progress io.Writer) *Pipeline {
	if progress == nil {
		progress = io.Discard
	}
	return &Pipeline{store: store, dedup: dedup, terms: terms, semantic: sem, progress: progress}
}

// Run processes the batch in order. A record that fails its own checks is
// counted and skipped; the run only aborts on context cancellation. The
// semantic push happens once at the end for every indexed paper, and a
// push failure degrades to a warning: the lexical index is already
// consistent and the sidecar upserts on the next run.
func (p *Pipeline) Run(ctx context.Context, records []types.RawRecord) (Summary, error) {
	var (
		summary Summary
		batch   []semantic.Document
	)

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		paper := rec.Paper()

		exists, err := p.store.Exists(ctx, paper.ID)
		if err != nil {
			summary.Failed++
			fmt.Fprintf(p.progress, "  warning: existence check for %s failed: %v\n", paper.ID, err)
			continue
		}
		if exists {
			summary.Skipped++
			fmt.Fprintf(p.progress, "skipped: %s (already indexed)\n", paper.ID)
			continue
		}

		dup, err := p.dedup.IsNearDuplicate(ctx, paper)
		if err != nil {
			summary.Failed++
			fmt.Fprintf(p.progress, "  warning: duplicate check for %s failed: %v\n", paper.ID, err)
			continue
		}
		if dup {
			summary.Duplicates++
			fmt.Fprintf(p.progress, "duplicate: %s (logged for review)\n", paper.ID)
			continue
		}

		var domainTerms []string
		if p.terms != nil {
			domainTerms = p.terms.DomainTerms(paper.Title)
		}

		added, err := p.store.Add(ctx, paper, domainTerms)
		if err != nil {
			summary.Failed++
			fmt.Fprintf(p.progress, "  warning: indexing %s failed: %v\n", paper.ID, err)
			continue
		}
		if !added {
			// Lost the race to a concurrent ingester.
			summary.Skipped++
			fmt.Fprintf(p.progress, "skipped: %s (already indexed)\n", paper.ID)
			continue
		}

		summary.Indexed++
		fmt.Fprintf(p.progress, "indexed: %s\n", paper.ID)
		batch = append(batch, semantic.Document{
			ID:   paper.ID,
			Text: embeddingText(paper),
		})
	}

	if p.semantic != nil && len(batch) > 0 {
		if err := p.semantic.IndexDocuments(ctx, batch); err != nil {
			fmt.Fprintf(p.progress, "  warning: semantic push of %d documents failed: %v\n", len(batch), err)
		}
	}
	return summary, nil
}

// embeddingText is the slice of a paper the sidecar embeds: title and
// abstract, which carry the semantic content.
func embeddingText(paper types.Paper) string {
	if paper.Summary == "" {
		return paper.Title
	}
	return paper.Title + ". " + paper.Summary
}
