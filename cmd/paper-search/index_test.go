// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// A missing background corpus is a configuration error: the batch must be
// rejected before anything reaches the index, not ingested without domain
// terms.
func TestRunIndexMissingCorpusFails(t *testing.T) {
	dir := t.TempDir()

	batch := filepath.Join(dir, "batch.json")
	record := `[{"id": "p1", "title": "Graph Networks", "summary": "A study."}]`
	if err := os.WriteFile(batch, []byte(record), 0o644); err != nil {
		t.Fatalf("writing batch: %v", err)
	}

	old := viper.GetString("analysis.corpus_path")
	viper.Set("analysis.corpus_path", filepath.Join(dir, "missing-corpus.txt"))
	defer viper.Set("analysis.corpus_path", old)

	err := runIndex(indexCmd, []string{batch})
	if err == nil {
		t.Fatal("runIndex should fail when the corpus file is missing")
	}
	if !strings.Contains(err.Error(), "corpus") {
		t.Errorf("error %q should mention the corpus file", err)
	}
}
