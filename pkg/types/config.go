// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that call
// external services.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IndexConfig holds settings for the lexical index store.
type IndexConfig struct {
	// IndexPath is the SQLite database file holding the index
	// (e.g. "data/index/papers.db").
	IndexPath string `json:"index_path" yaml:"index_path"`
}

// AnalysisConfig holds settings for text analysis and corpus statistics.
type AnalysisConfig struct {
	// CorpusPath is the whitespace-tokenized background corpus file, loaded
	// once at startup. A missing file aborts startup.
	CorpusPath string `json:"corpus_path" yaml:"corpus_path"`
}

// ClusterConfig holds settings for the cluster assignment snapshot.
type ClusterConfig struct {
	// ClusterPath is the JSON file mapping document ids to integer cluster
	// labels, loaded once at startup.
	ClusterPath string `json:"cluster_path" yaml:"cluster_path"`
}

// DedupConfig holds settings for the duplicate detector.
type DedupConfig struct {
	// LogPath is the SQLite database file holding the append-only duplicate
	// audit log (e.g. "data/index/duplicates.db").
	LogPath string `json:"log_path" yaml:"log_path"`
}

// SemanticConfig holds settings for the remote vector-similarity service.
type SemanticConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the semantic search service root (e.g. "http://localhost:8000").
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// CitationConfig holds settings for the citation-metadata service.
type CitationConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the citation API root
	// (default "https://api.semanticscholar.org/graph/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is an optional key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestsPerSecond caps outbound calls to the citation API (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// SearchConfig holds settings for the query path.
type SearchConfig struct {
	// PageSize is the default number of results per page (default 10).
	PageSize int `json:"page_size" yaml:"page_size"`

	// ProximityDistance is the default positional distance for proximity
	// queries (default 10).
	ProximityDistance int `json:"proximity_distance" yaml:"proximity_distance"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Index    IndexConfig    `json:"index" yaml:"index"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Cluster  ClusterConfig  `json:"cluster" yaml:"cluster"`
	Dedup    DedupConfig    `json:"dedup" yaml:"dedup"`
	Semantic SemanticConfig `json:"semantic" yaml:"semantic"`
	Citation CitationConfig `json:"citation" yaml:"citation"`
	Search   SearchConfig   `json:"search" yaml:"search"`
}
