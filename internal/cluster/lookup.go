// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster answers "what else is in this paper's topic cluster" from
// a precomputed assignment snapshot. Cluster labels come from an offline
// job over the semantic embeddings; the engine only reads them.
// Implements: prd008-cluster (R1-R2);
//
//	docs/ARCHITECTURE.md § Topic Clusters.
package cluster

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrNotFound reports an id with no cluster assignment.
var ErrNotFound = errors.New("paper has no cluster assignment")

// Lookup holds one immutable snapshot of cluster assignments. Reloading
// after the offline job reruns means constructing a new Lookup.
type Lookup struct {
	labels  map[string]int
	members map[int][]string
}

// Load reads a snapshot file: a JSON object mapping paper id to an integer
// cluster label.
func Load(path string) (*Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cluster snapshot: %w", err)
	}

	var labels map[string]int
	if err := json.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parsing cluster snapshot %s: %w", path, err)
	}

	members := make(map[int][]string)
	for id, label := range labels {
		members[label] = append(members[label], id)
	}
	// Deterministic member order regardless of map iteration.
	for _, ids := range members {
		sort.Strings(ids)
	}

	return &Lookup{labels: labels, members: members}, nil
}

// Size returns the number of assigned papers.
func (l *Lookup) Size() int { return len(l.labels) }

// RelatedTo returns every other paper in id's cluster, sorted by id. A
// paper alone in its cluster yields an empty slice; an unassigned id yields
// ErrNotFound.
func (l *Lookup) RelatedTo(id string) ([]string, error) {
	label, ok := l.labels[id]
	if !ok {
		return nil, fmt.Errorf("paper %s: %w", id, ErrNotFound)
	}

	var related []string
	for _, member := range l.members[label] {
		if member != id {
			related = append(related, member)
		}
	}
	return related, nil
}
