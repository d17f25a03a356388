// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/internal/corpus"
	"github.com/pdiddy/paper-search/internal/dedup"
	"github.com/pdiddy/paper-search/internal/index"
	"github.com/pdiddy/paper-search/internal/ingest"
	"github.com/pdiddy/paper-search/internal/semantic"
)

var indexCmd = &cobra.Command{
	Use:   "index <batch-file>",
	Short: "Ingest a batch of harvested records into the index",
	Long: `Index reads a harvested record batch (JSON array or YAML list), checks each
record against the index and the near-duplicate detector, extracts domain
terms from accepted titles, and indexes them. Accepted papers are also
pushed to the embedding sidecar when one is configured.

Rejected near-duplicates are written to the duplicate audit log; review
them with the duplicates subcommand.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	records, err := ingest.LoadRecords(args[0])
	if err != nil {
		return err
	}

	// The background corpus is mandatory configuration. Ingesting without it
	// would index papers permanently without their domain-terms field, and a
	// re-run cannot repair them.
	model, err := corpus.Load(cfg.Analysis.CorpusPath)
	if err != nil {
		return err
	}

	pipeline, err := buildAnalysis()
	if err != nil {
		return err
	}

	store, err := index.Open(cfg.Index, pipeline)
	if err != nil {
		return err
	}
	defer store.Close()

	log, err := dedup.OpenLog(cfg.Dedup.LogPath)
	if err != nil {
		return err
	}
	defer log.Close()

	extractor := corpus.NewExtractor(pipeline, model)

	var indexer ingest.SemanticIndexer
	if cfg.Semantic.BaseURL != "" {
		client, err := semantic.NewClient(cfg.Semantic)
		if err != nil {
			return err
		}
		indexer = client
	}

	detector := dedup.NewDetector(store, log)
	summary, err := ingest.New(store, detector, extractor, indexer, os.Stdout).
		Run(context.Background(), records)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d records: %d indexed, %d skipped, %d duplicates, %d failed\n",
		summary.Total(), summary.Indexed, summary.Skipped, summary.Duplicates, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed", summary.Failed)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
