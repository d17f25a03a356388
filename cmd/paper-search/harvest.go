// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-search/internal/harvest"
	"github.com/pdiddy/paper-search/internal/ingest"
	"github.com/pdiddy/paper-search/pkg/types"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest <arxiv-query>",
	Short: "Fetch paper records from the arXiv API into a batch file",
	Long: `Harvest runs an arXiv API query (e.g. "cat:cs.LG" or "all:protein folding")
and writes the normalized records to a batch file that the index subcommand
can ingest. The output format follows the file extension: .json or .yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: runHarvest,
}

func runHarvest(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetInt("start")
	max, _ := cmd.Flags().GetInt("max")
	out, _ := cmd.Flags().GetString("out")

	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("harvest.timeout"),
		UserAgent: userAgent(),
	}
	client := harvest.NewClient(httpCfg, viper.GetString("harvest.base_url"))
	records, err := client.Fetch(context.Background(), args[0], start, max)
	if err != nil {
		return err
	}

	if err := ingest.SaveRecords(out, records); err != nil {
		return err
	}
	fmt.Printf("Wrote %d record(s) to %s\n", len(records), out)
	return nil
}

func init() {
	harvestCmd.Flags().Int("start", 0, "result offset into the arXiv feed")
	harvestCmd.Flags().Int("max", 100, "maximum records to fetch")
	harvestCmd.Flags().String("out", "data/batches/batch.yaml", "output batch file (.json or .yaml)")

	rootCmd.AddCommand(harvestCmd)
}
