// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest pulls paper records from the arXiv API and normalizes
// them into the record shape the ingestion pipeline consumes.
// Implements: prd010-harvest (R1-R3);
//
//	docs/ARCHITECTURE.md § Harvesting.
package harvest

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-search/internal/httputil"
	"github.com/pdiddy/paper-search/pkg/types"
)

const (
	defaultBaseURL = "http://export.arxiv.org/api/query"
	defaultTimeout = 30 * time.Second
)

// categoryNames maps the arXiv category codes this engine commonly sees to
// display names. Unknown codes fall back to the code itself.
var categoryNames = map[string]string{
	"cs.AI":     "Artificial Intelligence",
	"cs.CL":     "Computation and Language",
	"cs.CV":     "Computer Vision and Pattern Recognition",
	"cs.DB":     "Databases",
	"cs.DC":     "Distributed, Parallel, and Cluster Computing",
	"cs.IR":     "Information Retrieval",
	"cs.LG":     "Machine Learning",
	"cs.NE":     "Neural and Evolutionary Computing",
	"stat.ML":   "Machine Learning (Statistics)",
	"math.OC":   "Optimization and Control",
	"q-bio.BM":  "Biomolecules",
	"eess.AS":   "Audio and Speech Processing",
	"eess.IV":   "Image and Video Processing",
}

// Client queries the arXiv API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient builds a client. An empty baseURL selects the public arXiv
// endpoint.
func NewClient(cfg types.HTTPConfig, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
	}
}

// Fetch runs one arXiv query (e.g. "cat:cs.LG" or "all:protein folding")
// and returns up to max records starting at the given offset, in the feed's
// submission order.
func (c *Client) Fetch(ctx context.Context, query string, start, max int) ([]types.RawRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("harvest: empty query")
	}
	if max <= 0 {
		return nil, fmt.Errorf("harvest: max must be positive, got %d", max)
	}

	params := url.Values{
		"search_query": {query},
		"start":        {strconv.Itoa(start)},
		"max_results":  {strconv.Itoa(max)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating harvest request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	records := make([]types.RawRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		records = append(records, entry.record())
	}
	return records, nil
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID              string `xml:"id"`
	Title           string `xml:"title"`
	Summary         string `xml:"summary"`
	Published       string `xml:"published"`
	Updated         string `xml:"updated"`
	Comment         string `xml:"comment"`
	PrimaryCategory struct {
		Term string `xml:"term,attr"`
	} `xml:"primary_category"`
	Links []struct {
		Href  string `xml:"href,attr"`
		Title string `xml:"title,attr"`
	} `xml:"link"`
	Authors []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// record normalizes one feed entry. Whitespace runs in title and summary
// collapse to single spaces; arXiv wraps both across lines.
func (e atomEntry) record() types.RawRecord {
	rec := types.RawRecord{
		ID:                  strings.TrimSpace(e.ID),
		Title:               collapseSpace(e.Title),
		Summary:             collapseSpace(e.Summary),
		Comment:             collapseSpace(e.Comment),
		Published:           strings.TrimSpace(e.Published),
		Updated:             strings.TrimSpace(e.Updated),
		PrimaryCategoryCode: e.PrimaryCategory.Term,
	}
	if name, ok := categoryNames[rec.PrimaryCategoryCode]; ok {
		rec.PrimaryCategory = name
	} else {
		rec.PrimaryCategory = rec.PrimaryCategoryCode
	}
	for _, link := range e.Links {
		if link.Title == "pdf" {
			rec.PDFLink = link.Href
		}
	}
	for _, a := range e.Authors {
		rec.Authors = append(rec.Authors, strings.TrimSpace(a.Name))
	}
	return rec
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
