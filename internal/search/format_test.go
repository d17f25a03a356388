// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-search/pkg/types"
)

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(Output{}, &buf)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestFormatTable(t *testing.T) {
	out := Output{
		Page:     1,
		PageSize: 10,
		Results: []types.Paper{
			{
				ID:           "2601.00001",
				Title:        "Graph Neural Networks",
				Authors:      []string{"Ada Lovelace", "Alan Turing"},
				Published:    "2026-01-09T00:00:00Z",
				CitationInfo: &types.CitationInfo{CitationCount: 42},
			},
			{
				ID:    "2601.00002",
				Title: "Uncited Preprint",
			},
		},
	}

	var buf bytes.Buffer
	FormatTable(out, &buf)
	text := buf.String()

	// Ranks continue across pages: page 1 of size 10 starts at 11.
	assert.Contains(t, text, "11 ")
	assert.Contains(t, text, "Graph Neural Networks")
	assert.Contains(t, text, "Ada Lovelace et al.")
	assert.Contains(t, text, "2026-01-09")
	assert.Contains(t, text, "42")
	// Missing citation data renders as a dash, not zero.
	line2 := text[strings.Index(text, "2601.00002"):]
	assert.Contains(t, line2, "-")
	assert.Contains(t, text, "page 1, 2 results")
}

func TestFormatTableTruncatesOnRuneBoundaries(t *testing.T) {
	out := Output{
		PageSize: 10,
		Results: []types.Paper{
			{
				ID:      "p1",
				Title:   strings.Repeat("é", 60),
				Authors: []string{strings.Repeat("ü", 30)},
			},
		},
	}

	var buf bytes.Buffer
	FormatTable(out, &buf)
	text := buf.String()

	require.True(t, utf8.ValidString(text))
	assert.Contains(t, text, strings.Repeat("é", 53)+"...")
	assert.Contains(t, text, strings.Repeat("ü", 17)+"...")
}

func TestFormatJSON(t *testing.T) {
	out := Output{Results: []types.Paper{{ID: "p1", Title: "T"}}}

	var buf bytes.Buffer
	require.NoError(t, FormatJSON(out, &buf))

	var decoded []types.Paper
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "p1", decoded[0].ID)
}
