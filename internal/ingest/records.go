// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-search/pkg/types"
)

// LoadRecords reads a harvested record batch from path. The format follows
// the file extension: .json expects a JSON array, .yaml/.yml a YAML list.
func LoadRecords(path string) ([]types.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record batch: %w", err)
	}

	var records []types.RawRecord
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing record batch %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parsing record batch %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported record batch format %q (want .json, .yaml, or .yml)", ext)
	}
	return records, nil
}

// SaveRecords writes a record batch to path in the format its extension
// selects, creating parent directories as needed.
func SaveRecords(path string, records []types.RawRecord) error {
	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(records, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(records)
	default:
		return fmt.Errorf("unsupported record batch format %q (want .json, .yaml, or .yml)", ext)
	}
	if err != nil {
		return fmt.Errorf("encoding record batch: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating batch directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing record batch: %w", err)
	}
	return nil
}
