// Package model defines the core Mnemon data types: insights, edges, and
// the small set of pure functions (weighting, immunity, formatting) shared
// across the rest of the system.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ValidCategories enumerates the categories an Insight may carry.
var ValidCategories = map[string]bool{
	"preference": true,
	"decision":   true,
	"fact":       true,
	"insight":    true,
	"context":    true,
	"general":    true,
}

// ValidEdgeTypes enumerates the edge types the graph supports.
var ValidEdgeTypes = map[string]bool{
	"temporal": true,
	"semantic": true,
	"causal":   true,
	"entity":   true,
}

// Insight is a single durable memory.
type Insight struct {
	ID                  string
	Content             string
	Category            string
	Importance          int
	Tags                []string
	Entities            []string
	Source              string
	AccessCount         int
	CreatedAt           time.Time
	UpdatedAt           time.Time
	LastAccessedAt      time.Time
	DeletedAt           *time.Time
	Embedding           []float64
	EffectiveImportance float64
}

// TagsJSON serializes Tags as a JSON array in insertion order (no sorting).
func (i *Insight) TagsJSON() (string, error) {
	return marshalStrings(i.Tags)
}

// EntitiesJSON serializes Entities as a canonical JSON array.
func (i *Insight) EntitiesJSON() (string, error) {
	return marshalStrings(i.Entities)
}

func marshalStrings(ss []string) (string, error) {
	if ss == nil {
		ss = []string{}
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseTags decodes a tags JSON array column back into a string slice.
func ParseTags(raw string) ([]string, error) {
	return parseStrings(raw)
}

// ParseEntities decodes an entities JSON array column back into a string slice.
func ParseEntities(raw string) ([]string, error) {
	return parseStrings(raw)
}

func parseStrings(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse string list: %w", err)
	}
	return out, nil
}

// Edge is a typed, weighted relationship between two insights.
type Edge struct {
	SourceID  string
	TargetID  string
	EdgeType  string
	Weight    float64
	Metadata  map[string]string
	CreatedAt time.Time
}

// MetadataJSON serializes edge metadata as a canonical (sorted-key) JSON object.
func (e *Edge) MetadataJSON() (string, error) {
	if e.Metadata == nil {
		return "{}", nil
	}
	b, err := json.Marshal(e.Metadata)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseMetadata decodes an edge metadata JSON column back into a map.
func ParseMetadata(raw string) (map[string]string, error) {
	if raw == "" {
		return map[string]string{}, nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return out, nil
}

const timestampLayout = "2006-01-02T15:04:05Z"

// FormatTimestamp renders a time as the canonical RFC-3339 Z form used
// throughout persisted and exported data.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp accepts both the canonical "Z" suffix form and the
// "+00:00" form for interop with the original store's legacy rows.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// FormatFloat renders a float with exactly four decimal digits, the format
// used for all edge-metadata floats (cosine, overlap, hours_diff).
func FormatFloat(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// baseWeightTable maps importance (1-5) to its base retention weight.
var baseWeightTable = map[int]float64{
	5: 1.0,
	4: 0.8,
	3: 0.5,
	2: 0.3,
	1: 0.15,
}

// BaseWeight returns the retention base weight for an importance level,
// defaulting to the weight of importance 1 for out-of-range input.
func BaseWeight(importance int) float64 {
	if w, ok := baseWeightTable[importance]; ok {
		return w
	}
	return 0.15
}

// IsImmune reports whether an insight is immune to auto-pruning:
// importance >= 4 or access_count >= 3.
func IsImmune(importance, accessCount int) bool {
	return importance >= 4 || accessCount >= 3
}
