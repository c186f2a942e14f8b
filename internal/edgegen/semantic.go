package edgegen

import (
	"sort"
	"time"

	"github.com/bissli/mnemon/internal/keyword"
	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/store"
	"github.com/bissli/mnemon/internal/vector"
)

// MinSemanticSimilarity is the floor for the token-overlap fallback path
// used by SemanticCandidates when no embeddings exist yet.
const MinSemanticSimilarity = 0.10

// ReviewSemanticThreshold is the floor for embedding-based candidate
// surfacing (review, not auto-linked).
const ReviewSemanticThreshold = 0.40

// AutoSemanticThreshold is the cosine similarity at or above which
// CreateSemanticEdges auto-links two insights.
const AutoSemanticThreshold = 0.80

// MaxSemanticCandidates caps SemanticCandidates' result size.
const MaxSemanticCandidates = 5

// MaxAutoSemanticEdges caps how many auto-linked semantic edges a single
// insight receives.
const MaxAutoSemanticEdges = 3

// EmbedCache maps insight id to its deserialized embedding vector.
type EmbedCache map[string][]float64

// BuildEmbedCache turns a flat embedding list (as loaded by
// store.GetAllEmbeddings) into a lookup cache, or nil if there are none
// — the signal CreateSemanticEdges and SemanticCandidates both use to
// fall back to token overlap.
func BuildEmbedCache(embeddings []store.EmbeddedInsight) EmbedCache {
	if len(embeddings) == 0 {
		return nil
	}
	cache := make(EmbedCache, len(embeddings))
	for _, e := range embeddings {
		cache[e.ID] = e.Vector
	}
	return cache
}

// SemanticStore is the persistence surface semantic edge generation needs.
type SemanticStore interface {
	InsertEdge(e *model.Edge) error
}

type scoredID struct {
	id  string
	sim float64
}

// CreateSemanticEdges auto-links insight to every cached embedding whose
// cosine similarity is >= AutoSemanticThreshold, capped at
// MaxAutoSemanticEdges, bidirectionally. Returns 0 if insight has no
// cached embedding or the cache is empty.
func CreateSemanticEdges(s SemanticStore, insight *model.Insight, cache EmbedCache) int {
	if cache == nil {
		return 0
	}
	insightVec, ok := cache[insight.ID]
	if !ok {
		return 0
	}

	var scored []scoredID
	for id, other := range cache {
		if id == insight.ID {
			continue
		}
		sim := vector.CosineSimilarity(insightVec, other)
		if sim >= AutoSemanticThreshold {
			scored = append(scored, scoredID{id, sim})
		}
	}
	if len(scored) == 0 {
		return 0
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].sim > scored[j].sim })
	if len(scored) > MaxAutoSemanticEdges {
		scored = scored[:MaxAutoSemanticEdges]
	}

	now := time.Now().UTC()
	count := 0
	for _, sc := range scored {
		meta := map[string]string{"created_by": "auto", "cosine": model.FormatFloat(sc.sim)}
		if tryInsertSemantic(s, &model.Edge{
			SourceID: insight.ID, TargetID: sc.id, EdgeType: "semantic",
			Weight: sc.sim, Metadata: meta, CreatedAt: now,
		}) {
			count++
		}
		if tryInsertSemantic(s, &model.Edge{
			SourceID: sc.id, TargetID: insight.ID, EdgeType: "semantic",
			Weight: sc.sim, Metadata: meta, CreatedAt: now,
		}) {
			count++
		}
	}
	return count
}

func tryInsertSemantic(s SemanticStore, e *model.Edge) bool {
	return s.InsertEdge(e) == nil
}

// SemanticCandidate is a potential semantic match surfaced for review.
type SemanticCandidate struct {
	ID         string
	Content    string
	Category   string
	Similarity float64
	AutoLinked bool
}

// SemanticCandidates returns up to MaxSemanticCandidates insights similar
// to insight: embedding-based cosine similarity when cache is non-nil and
// insight has a cached vector, otherwise a token-overlap fallback over
// allActive.
func SemanticCandidates(insight *model.Insight, cache EmbedCache, lookup func(id string) (*model.Insight, error), allActive []*model.Insight) []SemanticCandidate {
	if cands := candidatesByEmbedding(insight, cache, lookup); cands != nil {
		return cands
	}
	return candidatesByTokenOverlap(insight, allActive)
}

func candidatesByEmbedding(insight *model.Insight, cache EmbedCache, lookup func(id string) (*model.Insight, error)) []SemanticCandidate {
	if cache == nil {
		return nil
	}
	insightVec, ok := cache[insight.ID]
	if !ok {
		return nil
	}

	var scored []scoredID
	for id, other := range cache {
		if id == insight.ID {
			continue
		}
		sim := vector.CosineSimilarity(insightVec, other)
		if sim >= ReviewSemanticThreshold {
			scored = append(scored, scoredID{id, sim})
		}
	}
	if len(scored) == 0 {
		return nil
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].sim > scored[j].sim })
	if len(scored) > MaxSemanticCandidates {
		scored = scored[:MaxSemanticCandidates]
	}

	var result []SemanticCandidate
	for _, sc := range scored {
		ins, err := lookup(sc.id)
		if err != nil || ins == nil {
			continue
		}
		result = append(result, SemanticCandidate{
			ID: ins.ID, Content: ins.Content, Category: ins.Category,
			Similarity: sc.sim, AutoLinked: sc.sim >= AutoSemanticThreshold,
		})
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func candidatesByTokenOverlap(insight *model.Insight, allActive []*model.Insight) []SemanticCandidate {
	if len(allActive) == 0 {
		return nil
	}

	type scoredIns struct {
		ins *model.Insight
		sim float64
	}
	var scored []scoredIns
	for _, other := range allActive {
		if other.ID == insight.ID {
			continue
		}
		sim := keyword.ContentSimilarity(insight.Content, other.Content)
		if sim >= MinSemanticSimilarity {
			scored = append(scored, scoredIns{other, sim})
		}
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].sim > scored[j].sim })
	if len(scored) > MaxSemanticCandidates {
		scored = scored[:MaxSemanticCandidates]
	}

	result := make([]SemanticCandidate, 0, len(scored))
	for _, sc := range scored {
		result = append(result, SemanticCandidate{
			ID: sc.ins.ID, Content: sc.ins.Content, Category: sc.ins.Category,
			Similarity: sc.sim, AutoLinked: false,
		})
	}
	return result
}
