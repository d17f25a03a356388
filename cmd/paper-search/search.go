// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/internal/citations"
	"github.com/pdiddy/paper-search/internal/cluster"
	"github.com/pdiddy/paper-search/internal/search"
	"github.com/pdiddy/paper-search/internal/semantic"
	"github.com/pdiddy/paper-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Run a ranked query over the index",
	Long: `Search retrieves one page of results for a query. The default mode is
ranked lexical retrieval; --proximity requires all query terms to appear
near each other, and --semantic ranks by embedding similarity via the
sidecar instead.

Each result page is enriched with live citation counts and re-ordered by
them before display.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	proximity, _ := cmd.Flags().GetBool("proximity")
	distance, _ := cmd.Flags().GetInt("distance")
	useSemantic, _ := cmd.Flags().GetBool("semantic")
	noCitations, _ := cmd.Flags().GetBool("no-citations")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	orchestrator, err := buildOrchestrator(store, cfg, !noCitations)
	if err != nil {
		return err
	}

	out, err := orchestrator.Search(context.Background(), search.Request{
		Query:             strings.Join(args, " "),
		Page:              page,
		PageSize:          pageSize,
		Proximity:         proximity,
		ProximityDistance: distance,
		Semantic:          useSemantic,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return search.FormatJSON(out, os.Stdout)
	}
	search.FormatTable(out, os.Stdout)
	return nil
}

// buildOrchestrator wires the optional backends that are configured:
// the sidecar when a base URL is set, the cluster lookup when a snapshot
// path is set, and the citation client unless disabled.
func buildOrchestrator(store search.Index, cfg types.EngineConfig, withCitations bool) (*search.Orchestrator, error) {
	var sem search.SemanticSearcher
	if cfg.Semantic.BaseURL != "" {
		client, err := semantic.NewClient(cfg.Semantic)
		if err != nil {
			return nil, err
		}
		sem = client
	}

	var cit search.CitationFetcher
	if withCitations {
		cit = citations.NewClient(cfg.Citation)
	}

	var rel search.RelatedLookup
	if cfg.Cluster.ClusterPath != "" {
		lookup, err := cluster.Load(cfg.Cluster.ClusterPath)
		if err != nil {
			return nil, fmt.Errorf("loading cluster snapshot: %w", err)
		}
		rel = lookup
	}

	return search.New(store, sem, cit, rel, cfg.Search, os.Stderr), nil
}

func init() {
	searchCmd.Flags().Int("page", 0, "zero-based result page")
	searchCmd.Flags().Int("page-size", 0, "results per page (0 = configured default)")
	searchCmd.Flags().Bool("proximity", false, "require all terms near each other")
	searchCmd.Flags().Int("distance", 0, "proximity distance in term positions (0 = configured default)")
	searchCmd.Flags().Bool("semantic", false, "rank by embedding similarity via the sidecar")
	searchCmd.Flags().Bool("no-citations", false, "skip citation enrichment")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
