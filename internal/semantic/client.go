// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package semantic talks to the embedding sidecar, a separate vector-search
// service holding dense representations of every indexed paper. The engine
// pushes documents to it at ingestion time and queries it for
// similarity-ranked ids at search time.
// Implements: prd006-semantic (R1-R3);
//
//	docs/ARCHITECTURE.md § Semantic Search.
package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/paper-search/internal/httputil"
	"github.com/pdiddy/paper-search/pkg/types"
)

const defaultTimeout = 30 * time.Second

// Hit is one similarity match: the indexed paper id and its score, higher
// meaning more similar. The sidecar returns hits best-first.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Document is the slice of a paper the sidecar embeds.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Client is the HTTP client for the sidecar.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient builds a client from config. BaseURL is mandatory; the sidecar
// has no default location.
func NewClient(cfg types.SemanticConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("semantic: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
	}, nil
}

// Search returns the topK most similar indexed documents for the query,
// best-first. Ids are returned as the sidecar stored them; callers resolve
// them against the lexical index and must tolerate ids that no longer exist
// there.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if query == "" {
		return nil, fmt.Errorf("semantic: empty query")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("semantic: top_k must be positive, got %d", topK)
	}

	params := url.Values{
		"query": {query},
		"top_k": {strconv.Itoa(topK)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating semantic search request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("semantic search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("semantic service returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		Results []Hit `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing semantic search response: %w", err)
	}
	return body.Results, nil
}

// IndexDocuments pushes a batch of documents to the sidecar for embedding.
// The sidecar upserts by id, so re-pushing an existing document is safe.
func (c *Client) IndexDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	payload, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encoding semantic documents: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/index_documents/", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating semantic index request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return fmt.Errorf("semantic index request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("semantic service returned HTTP %d", resp.StatusCode)
	}
	return nil
}
