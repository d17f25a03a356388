// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/internal/search"
)

var relatedCmd = &cobra.Command{
	Use:   "related <paper-id>",
	Short: "List papers in the same topic cluster",
	Long: `Related looks up the paper's topic cluster in the assignment snapshot and
prints the other indexed papers assigned to it. Requires cluster.cluster_path
to point at a snapshot produced by the offline clustering job.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func runRelated(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	orchestrator, err := buildOrchestrator(store, cfg, false)
	if err != nil {
		return err
	}

	papers, err := orchestrator.Related(context.Background(), args[0])
	if err != nil {
		return err
	}

	out := search.Output{Results: papers, PageSize: len(papers)}
	if jsonOutput {
		return search.FormatJSON(out, os.Stdout)
	}
	if len(papers) == 0 {
		fmt.Println("No related papers.")
		return nil
	}
	search.FormatTable(out, os.Stdout)
	return nil
}

func init() {
	relatedCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(relatedCmd)
}
