// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes one result page as a human-readable table.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-16s  %-56s  %-20s  %-10s  %s\n",
		"Rank", "ID", "Title", "Authors", "Published", "Citations")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, p := range out.Results {
		title := truncate(p.Title, 56)
		published := p.Published
		if len(published) > 10 {
			published = published[:10]
		}
		citations := "-"
		if p.CitationInfo != nil {
			citations = fmt.Sprintf("%d", p.CitationInfo.CitationCount)
		}
		fmt.Fprintf(w, "%-4d  %-16s  %-56s  %-20s  %-10s  %s\n",
			out.Page*out.PageSize+i+1, p.ID, title, formatAuthors(p.Authors), published, citations)
	}

	fmt.Fprintf(w, "\npage %d, %d results\n", out.Page, len(out.Results))
}

// FormatJSON writes the result page as indented JSON.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to at most max runes, ellipsized. Slicing runes rather
// than bytes keeps multi-byte titles intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
