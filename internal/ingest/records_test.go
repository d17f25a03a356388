// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-search/pkg/types"
)

func writeBatch(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecordsJSON(t *testing.T) {
	path := writeBatch(t, "batch.json", `[
		{"id": "2601.00001", "title": "First", "summary": "S1", "authors": ["A"]},
		{"id": "2601.00002", "title": "Second", "primaryCategoryCode": "cs.LG"}
	]`)

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].Title)
	assert.Equal(t, []string{"A"}, records[0].Authors)
	assert.Equal(t, "cs.LG", records[1].PrimaryCategoryCode)
}

func TestLoadRecordsYAML(t *testing.T) {
	path := writeBatch(t, "batch.yaml", `
- id: "2601.00001"
  title: First
  summary: S1
  pdf_link: https://arxiv.org/pdf/2601.00001
- id: "2601.00002"
  title: Second
`)

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://arxiv.org/pdf/2601.00001", records[0].PDFLink)
	assert.Equal(t, "Second", records[1].Title)
}

func TestLoadRecordsUnsupportedExtension(t *testing.T) {
	path := writeBatch(t, "batch.txt", "whatever")

	_, err := LoadRecords(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported record batch format")
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, err := LoadRecords(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestSaveRecordsRoundTrip(t *testing.T) {
	records := []types.RawRecord{
		{ID: "2601.00001", Title: "First", Authors: []string{"A", "B"}},
		{ID: "2601.00002", Title: "Second", PrimaryCategoryCode: "cs.LG"},
	}

	for _, name := range []string{"batch.json", "out/batch.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, SaveRecords(path, records))

		got, err := LoadRecords(path)
		require.NoError(t, err)
		assert.Equal(t, records, got, name)
	}
}

func TestSaveRecordsUnsupportedExtension(t *testing.T) {
	err := SaveRecords(filepath.Join(t.TempDir(), "batch.csv"), nil)
	assert.Error(t, err)
}

func TestLoadRecordsMalformed(t *testing.T) {
	path := writeBatch(t, "batch.json", `{"not": "an array"}`)

	_, err := LoadRecords(path)
	assert.Error(t, err)
}
