// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-search/internal/dedup"
	"github.com/pdiddy/paper-search/pkg/types"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Review the near-duplicate audit log",
	Long: `Duplicates lists every rejected near-duplicate in the order it was flagged,
with the indexed paper it matched and the similarity that triggered the
rejection. Use --format yaml or --format json for a machine-readable export.`,
	RunE: runDuplicates,
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()
	format, _ := cmd.Flags().GetString("format")

	log, err := dedup.OpenLog(cfg.Dedup.LogPath)
	if err != nil {
		return err
	}
	defer log.Close()

	records, err := log.List(context.Background())
	if err != nil {
		return err
	}

	switch format {
	case "table", "":
		writeDuplicatesTable(os.Stdout, records)
		return nil
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(records)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml, or json", format)
	}
}

// writeDuplicatesTable renders the audit log as a fixed-width table, one
// flagged candidate per line in flag order.
func writeDuplicatesTable(w io.Writer, records []types.DuplicateRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No duplicates recorded.")
		return
	}
	fmt.Fprintf(w, "%-16s  %-40s  %-16s  %-10s  %s\n",
		"Candidate", "Title", "Matched", "Similarity", "Flagged")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, rec := range records {
		title := rec.Candidate.Title
		if runes := []rune(title); len(runes) > 40 {
			title = string(runes[:37]) + "..."
		}
		fmt.Fprintf(w, "%-16s  %-40s  %-16s  %-10.3f  %s\n",
			rec.Candidate.ID, title, rec.ExistingID, rec.Similarity, rec.FlaggedAt)
	}
	fmt.Fprintf(w, "\n%d record(s)\n", len(records))
}

func init() {
	duplicatesCmd.Flags().String("format", "table", "output format: table, yaml, or json")

	rootCmd.AddCommand(duplicatesCmd)
}
