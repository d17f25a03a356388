// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-search engine.
// Implements: prd001-ingestion (Paper, RawRecord, DuplicateRecord);
//
//	prd009-search (CitationInfo).
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

// Paper is a research paper as stored in the lexical index. All metadata
// fields are carried as opaque strings exactly as the upstream feed provided
// them; the engine never reinterprets dates or links. A Paper is immutable
// once indexed except for CitationInfo, which is attached transiently at
// query time and never persisted.
type Paper struct {
	// ID is the stable external identifier (e.g. an arXiv abs URL or bare ID).
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Summary is the abstract text.
	Summary string `json:"summary" yaml:"summary"`

	// PDFLink is the upstream PDF location.
	PDFLink string `json:"pdfLink" yaml:"pdf_link"`

	// Comment is the free-form submitter comment from the feed.
	Comment string `json:"comment" yaml:"comment"`

	// Updated and Published are feed timestamps, kept verbatim.
	Updated   string `json:"updated" yaml:"updated"`
	Published string `json:"published" yaml:"published"`

	// PrimaryCategory is the display name; PrimaryCategoryCode the short code
	// (e.g. "Machine Learning" / "cs.LG").
	PrimaryCategory     string `json:"primaryCategory" yaml:"primary_category"`
	PrimaryCategoryCode string `json:"primaryCategoryCode" yaml:"primary_category_code"`

	// Authors lists the paper authors in declaration order.
	Authors []string `json:"authors" yaml:"authors"`

	// CitationInfo is populated by the search path only. Nil when not enriched.
	CitationInfo *CitationInfo `json:"citationInfo,omitempty" yaml:"citation_info,omitempty"`
}

// CitationCount returns the enriched citation count, or zero when the paper
// has not been enriched.
func (p Paper) CitationCount() int {
	if p.CitationInfo == nil {
		return 0
	}
	return p.CitationInfo.CitationCount
}

// CitationInfo holds citation metadata fetched per query from the citation
// service. It is never cached across requests.
type CitationInfo struct {
	// CitationCount is the number of known citing papers. Never negative.
	CitationCount int `json:"citationCount" yaml:"citation_count"`

	// CitationURLs are links to the citing papers. Duplicates are not removed.
	CitationURLs []string `json:"citationUrls" yaml:"citation_urls"`
}

// RawRecord is one normalized record from an upstream feed, already parsed
// by the acquisition layer. Ingestion converts RawRecords into Papers.
type RawRecord struct {
	ID                  string   `json:"id" yaml:"id"`
	Title               string   `json:"title" yaml:"title"`
	Summary             string   `json:"summary" yaml:"summary"`
	PDFLink             string   `json:"pdfLink" yaml:"pdf_link"`
	Comment             string   `json:"comment" yaml:"comment"`
	Updated             string   `json:"updated" yaml:"updated"`
	Published           string   `json:"published" yaml:"published"`
	PrimaryCategory     string   `json:"primaryCategory" yaml:"primary_category"`
	PrimaryCategoryCode string   `json:"primaryCategoryCode" yaml:"primary_category_code"`
	Authors             []string `json:"authors" yaml:"authors"`
}

// Paper converts the record into an index-ready Paper.
func (r RawRecord) Paper() Paper {
	return Paper{
		ID:                  r.ID,
		Title:               r.Title,
		Summary:             r.Summary,
		PDFLink:             r.PDFLink,
		Comment:             r.Comment,
		Updated:             r.Updated,
		Published:           r.Published,
		PrimaryCategory:     r.PrimaryCategory,
		PrimaryCategoryCode: r.PrimaryCategoryCode,
		Authors:             r.Authors,
	}
}

// DuplicateRecord pairs a rejected candidate with the indexed document it
// matched. Records are append-only and kept for manual review; nothing in
// the engine ever prunes them.
type DuplicateRecord struct {
	// Candidate is the incoming paper that was rejected.
	Candidate Paper `json:"candidate" yaml:"candidate"`

	// ExistingID and ExistingTitle identify the indexed document it matched.
	ExistingID    string `json:"existingId" yaml:"existing_id"`
	ExistingTitle string `json:"existingTitle" yaml:"existing_title"`

	// Similarity is the shingle Jaccard similarity that triggered the flag.
	Similarity float64 `json:"similarity" yaml:"similarity"`

	// FlaggedAt is an RFC 3339 timestamp set when the record was written.
	FlaggedAt string `json:"flaggedAt" yaml:"flagged_at"`
}
