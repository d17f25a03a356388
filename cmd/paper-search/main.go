// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-search CLI.
// Implements: prd001-ingestion, prd009-search (CLI surface).
// See docs/ARCHITECTURE.md § Command Surface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-search/internal/analysis"
	"github.com/pdiddy/paper-search/internal/index"
	"github.com/pdiddy/paper-search/internal/secrets"
	"github.com/pdiddy/paper-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paper-search CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-search",
	Short: "Local search engine for research paper feeds",
	Long: `paper-search ingests harvested paper records into a local full-text index,
rejecting near-duplicate abstracts on the way in, and answers ranked queries
over it: lexical, positional-proximity, or semantic via the embedding
sidecar. Result pages are enriched with live citation counts and re-ordered
by them.

Each operation is a subcommand: index, search, suggest, related, and
duplicates.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-search.yaml or ~/.config/paper-search/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-search"))
		}
	}

	viper.SetEnvPrefix("PAPER_SEARCH")
	viper.AutomaticEnv()

	viper.SetDefault("index.index_path", "data/index/papers.db")
	viper.SetDefault("dedup.log_path", "data/index/duplicates.db")
	viper.SetDefault("analysis.corpus_path", "data/corpus/corpus.txt")
	viper.SetDefault("citation.requests_per_second", 1.0)
	viper.SetDefault("search.page_size", 10)
	viper.SetDefault("search.proximity_distance", 10)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the full configuration from viper.
func engineConfig() types.EngineConfig {
	return types.EngineConfig{
		Index: types.IndexConfig{
			IndexPath: viper.GetString("index.index_path"),
		},
		Analysis: types.AnalysisConfig{
			CorpusPath: viper.GetString("analysis.corpus_path"),
		},
		Cluster: types.ClusterConfig{
			ClusterPath: viper.GetString("cluster.cluster_path"),
		},
		Dedup: types.DedupConfig{
			LogPath: viper.GetString("dedup.log_path"),
		},
		Semantic: types.SemanticConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("semantic.timeout"),
				UserAgent: userAgent(),
			},
			BaseURL: viper.GetString("semantic.base_url"),
		},
		Citation: types.CitationConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("citation.timeout"),
				UserAgent: userAgent(),
			},
			BaseURL:           viper.GetString("citation.base_url"),
			APIKey:            secretDefault("semantic-scholar-api-key", viper.GetString("citation.api_key")),
			RequestsPerSecond: viper.GetFloat64("citation.requests_per_second"),
		},
		Search: types.SearchConfig{
			PageSize:          viper.GetInt("search.page_size"),
			ProximityDistance: viper.GetInt("search.proximity_distance"),
		},
	}
}

func userAgent() string {
	return "paper-search/" + version
}

// buildAnalysis loads the lemmatizer model and builds the analysis chain.
func buildAnalysis() (*analysis.Pipeline, error) {
	lem, err := analysis.NewEnglishLemmatizer()
	if err != nil {
		return nil, fmt.Errorf("loading lemmatizer model: %w", err)
	}
	return analysis.NewPipeline(lem)
}

// openStore builds the analysis chain and opens the lexical index.
func openStore(cfg types.EngineConfig) (*index.Store, error) {
	pipeline, err := buildAnalysis()
	if err != nil {
		return nil, err
	}
	return index.Open(cfg.Index, pipeline)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
