// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citations enriches search results with citation counts and citing
// URLs from the Semantic Scholar graph API.
// Implements: prd007-citations (R1-R3);
//
//	docs/ARCHITECTURE.md § Citation Enrichment.
package citations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-search/internal/httputil"
	"github.com/pdiddy/paper-search/pkg/types"
)

const (
	defaultBaseURL           = "https://api.semanticscholar.org/graph/v1"
	defaultTimeout           = 30 * time.Second
	defaultRequestsPerSecond = 1.0

	// citationFields limits the response to what the engine consumes.
	citationFields = "citationCount,citations.url"
)

// versionSuffix matches the trailing arXiv version marker, e.g. "v2".
var versionSuffix = regexp.MustCompile(`v\d+$`)

// Client fetches citation data. All requests pass through a token-bucket
// limiter sized from config, so a burst of concurrent lookups from the
// search path never exceeds the API's rate policy.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	userAgent  string
}

// NewClient builds a client from config, falling back to the public
// Semantic Scholar endpoint and a conservative 1 req/s limit.
func NewClient(cfg types.CitationConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
	}
}

// Fetch returns the citation count and citing-paper URLs for one arXiv id.
// The id may be a bare id, a versioned id, or a full arXiv abstract URL.
func (c *Client) Fetch(ctx context.Context, arxivID string) (types.CitationInfo, error) {
	id := normalizeID(arxivID)
	if id == "" {
		return types.CitationInfo{}, fmt.Errorf("citations: empty arXiv id")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return types.CitationInfo{}, err
	}

	reqURL := fmt.Sprintf("%s/paper/arXiv:%s?fields=%s", c.baseURL, id, citationFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.CitationInfo{}, fmt.Errorf("creating citation request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return types.CitationInfo{}, fmt.Errorf("citation request for %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.CitationInfo{}, fmt.Errorf("citation API returned HTTP %d for %s", resp.StatusCode, id)
	}

	var body struct {
		CitationCount int `json:"citationCount"`
		Citations     []struct {
			URL string `json:"url"`
		} `json:"citations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return types.CitationInfo{}, fmt.Errorf("parsing citation response for %s: %w", id, err)
	}

	info := types.CitationInfo{CitationCount: body.CitationCount}
	for _, cit := range body.Citations {
		if cit.URL != "" {
			info.CitationURLs = append(info.CitationURLs, cit.URL)
		}
	}
	return info, nil
}

// normalizeID reduces any of the id shapes the index may hold to the bare
// arXiv id the graph API expects: the part after "/abs/" when a full URL is
// stored, with any trailing version marker removed.
func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if idx := strings.Index(id, "/abs/"); idx >= 0 {
		id = id[idx+len("/abs/"):]
	}
	return versionSuffix.ReplaceAllString(id, "")
}
