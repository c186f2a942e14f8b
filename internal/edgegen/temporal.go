// Package edgegen builds the typed knowledge graph around a newly
// remembered insight: a temporal backbone/proximity chain, entity
// co-occurrence links, causal signal links, and semantic similarity
// links. Each generator is independent and swallows its own insert
// failures so one bad edge never blocks the others.
package edgegen

import (
	"time"

	"github.com/bissli/mnemon/internal/model"
)

// TemporalWindowHours bounds how far back CreateTemporalEdges looks for
// proximity neighbors.
const TemporalWindowHours = 24.0

// MaxProximityEdges caps how many proximity neighbors a single insight
// links to.
const MaxProximityEdges = 10

// Store is the minimal persistence surface the edge generators need,
// satisfied by internal/store's package-level functions bound to a
// single querier (a *sql.DB or an in-flight *sql.Tx).
type Store interface {
	LatestInsightBySource(source, excludeID string) (*model.Insight, error)
	RecentInsightsInWindow(excludeID string, windowHours float64, limit int) ([]*model.Insight, error)
	InsertEdge(e *model.Edge) error
}

// CreateTemporalEdges links insight into the per-source backbone chain
// (the most recent prior insight from the same source, bidirectional)
// and to any other active insights created within TemporalWindowHours
// (proximity links, weight inversely proportional to time difference).
// It returns the number of edges successfully inserted; individual
// insert failures are swallowed so a constraint violation on one edge
// never blocks the rest.
func CreateTemporalEdges(s Store, insight *model.Insight) int {
	now := time.Now().UTC()
	count := 0

	prev, err := s.LatestInsightBySource(insight.Source, insight.ID)
	if err != nil {
		prev = nil
	}

	backboneID := ""
	if prev != nil {
		backboneID = prev.ID

		if tryInsert(s, &model.Edge{
			SourceID: prev.ID, TargetID: insight.ID, EdgeType: "temporal",
			Weight:   1.0,
			Metadata: map[string]string{"sub_type": "backbone", "direction": "precedes"},
			CreatedAt: now,
		}) {
			count++
		}
		if tryInsert(s, &model.Edge{
			SourceID: insight.ID, TargetID: prev.ID, EdgeType: "temporal",
			Weight:   1.0,
			Metadata: map[string]string{"sub_type": "backbone", "direction": "succeeds"},
			CreatedAt: now,
		}) {
			count++
		}
	}

	recent, err := s.RecentInsightsInWindow(insight.ID, TemporalWindowHours, MaxProximityEdges)
	if err != nil || len(recent) == 0 {
		return count
	}

	for _, near := range recent {
		if near.ID == backboneID {
			continue
		}

		hoursDiff := insight.CreatedAt.Sub(near.CreatedAt).Hours()
		if hoursDiff < 0 {
			hoursDiff = -hoursDiff
		}
		weight := 1.0 / (1.0 + hoursDiff)
		meta := map[string]string{
			"sub_type":   "proximity",
			"hours_diff": model.FormatFloat(hoursDiff),
		}

		if tryInsert(s, &model.Edge{
			SourceID: insight.ID, TargetID: near.ID, EdgeType: "temporal",
			Weight: weight, Metadata: meta, CreatedAt: now,
		}) {
			count++
		}
		if tryInsert(s, &model.Edge{
			SourceID: near.ID, TargetID: insight.ID, EdgeType: "temporal",
			Weight: weight, Metadata: meta, CreatedAt: now,
		}) {
			count++
		}
	}

	return count
}

func tryInsert(s Store, e *model.Edge) bool {
	return s.InsertEdge(e) == nil
}
