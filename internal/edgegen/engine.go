package edgegen

import (
	"github.com/bissli/mnemon/internal/entity"
	"github.com/bissli/mnemon/internal/model"
)

// EngineStore is the full persistence surface the edge generators need
// combined, the interface internal/mnemon's write pipeline passes in
// (bound to a single open transaction).
type EngineStore interface {
	Store
	EntityStore
	CausalStore
	SemanticStore
}

// Stats reports how many edges each generator created for a single
// OnInsightCreated call.
type Stats struct {
	Temporal int
	Entity   int
	Causal   int
	Semantic int
}

// OnInsightCreated merges regex/dictionary-extracted entities into
// insight.Entities, then runs all four edge generators in order
// (temporal, entity, causal, semantic), the full post-write graph
// maintenance step run once per remembered insight.
func OnInsightCreated(s EngineStore, insight *model.Insight, cache EmbedCache) Stats {
	extracted := entity.Extract(insight.Content)
	insight.Entities = entity.Merge(insight.Entities, extracted)

	return Stats{
		Temporal: CreateTemporalEdges(s, insight),
		Entity:   CreateEntityEdges(s, insight),
		Causal:   CreateCausalEdges(s, insight),
		Semantic: CreateSemanticEdges(s, insight, cache),
	}
}
