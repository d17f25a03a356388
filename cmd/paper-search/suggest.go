// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// suggestLimit caps the number of completions shown.
const suggestLimit = 10

var suggestCmd = &cobra.Command{
	Use:   "suggest <prefix>",
	Short: "Complete a title prefix against the index",
	Long: `Suggest prints up to ten indexed titles whose title terms start with the
given prefix, best match first. Prefixes of two to five characters match
directly against the indexed edge n-grams.`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	titles, err := store.TitleSuggestions(context.Background(), args[0], suggestLimit)
	if err != nil {
		return err
	}

	if len(titles) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}
	for _, title := range titles {
		fmt.Println(title)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
