package edgegen

import (
	"time"

	"github.com/bissli/mnemon/internal/entity"
	"github.com/bissli/mnemon/internal/model"
)

// MaxEntityLinks caps how many existing insights a single entity links
// the new insight to.
const MaxEntityLinks = 5

// MaxTotalEntityEdges caps the total entity edges created for one insight
// across all of its entities combined.
const MaxTotalEntityEdges = 50

// useIDFThreshold is the corpus size above which entity edge weight
// switches from a flat 1.0 to the IDF-based weight; below it, the corpus
// is too small for document frequency to be a meaningful signal.
const useIDFThreshold = 5

// EntityStore is the persistence surface entity edge generation needs.
type EntityStore interface {
	InsertEdge(e *model.Edge) error
	CountActiveInsights() (int, error)
	FindInsightsWithEntity(ent, excludeID string, limit int) ([]string, error)
	CountInsightsWithEntity(ent, excludeID string) (int, error)
}

// CreateEntityEdges links insight to existing insights that share one of
// its entities, weighting each entity's edges either flat (small corpus)
// or by IDF (corpus > useIDFThreshold insights). Returns the number of
// edges successfully inserted.
func CreateEntityEdges(s EntityStore, insight *model.Insight) int {
	if len(insight.Entities) == 0 {
		return 0
	}

	totalDocs, err := s.CountActiveInsights()
	if err != nil {
		return 0
	}
	useIDF := totalDocs > useIDFThreshold

	now := time.Now().UTC()
	count := 0

	for _, ent := range insight.Entities {
		if count >= MaxTotalEntityEdges {
			break
		}

		ids, err := s.FindInsightsWithEntity(ent, insight.ID, MaxEntityLinks)
		if err != nil || len(ids) == 0 {
			continue
		}

		weight := 1.0
		if useIDF {
			docFreq, err := s.CountInsightsWithEntity(ent, insight.ID)
			if err != nil {
				continue
			}
			weight = entity.IDFWeight(docFreq+1, totalDocs)
			if weight == 0.0 {
				continue
			}
		}

		for _, targetID := range ids {
			if count >= MaxTotalEntityEdges {
				break
			}
			if tryInsert(s, &model.Edge{
				SourceID: insight.ID, TargetID: targetID, EdgeType: "entity",
				Weight: weight, Metadata: map[string]string{"entity": ent}, CreatedAt: now,
			}) {
				count++
			}
			if tryInsert(s, &model.Edge{
				SourceID: targetID, TargetID: insight.ID, EdgeType: "entity",
				Weight: weight, Metadata: map[string]string{"entity": ent}, CreatedAt: now,
			}) {
				count++
			}
		}
	}

	return count
}
