package edgegen

import (
	"time"

	"github.com/bissli/mnemon/internal/bfs"
	"github.com/bissli/mnemon/internal/causal"
	"github.com/bissli/mnemon/internal/keyword"
	"github.com/bissli/mnemon/internal/model"
)

// MinCausalOverlap is the minimum token overlap ratio required before a
// causal edge is created.
const MinCausalOverlap = 0.15

// CausalLookback bounds how many recent active insights are considered
// as causal-edge candidates.
const CausalLookback = 10

// MaxCausalCandidates bounds the 2-hop BFS result CausalCandidates surfaces.
const MaxCausalCandidates = 10

// CausalStore is the persistence surface causal edge generation needs.
type CausalStore interface {
	InsertEdge(e *model.Edge) error
	RecentActiveInsights(excludeID string, limit int) ([]*model.Insight, error)
}

// CreateCausalEdges links insight to recently created insights that
// share enough token overlap and where at least one of the pair carries
// a causal-language signal ("because", "leads to", "prevents", ...).
// Direction defaults to prev -> insight (the earlier insight is treated
// as upstream); it flips only when the new insight carries no causal
// signal but the earlier one does.
func CreateCausalEdges(s CausalStore, insight *model.Insight) int {
	recent, err := s.RecentActiveInsights(insight.ID, CausalLookback)
	if err != nil || len(recent) == 0 {
		return 0
	}

	newTokens := keyword.Tokenize(insight.Content)
	if len(newTokens) == 0 {
		return 0
	}

	newHasSignal := causal.HasSignal(insight.Content)
	now := time.Now().UTC()
	count := 0

	for _, prev := range recent {
		prevHasSignal := causal.HasSignal(prev.Content)
		if !newHasSignal && !prevHasSignal {
			continue
		}

		prevTokens := keyword.Tokenize(prev.Content)
		overlap := causal.TokenOverlap(newTokens, prevTokens)
		if overlap < MinCausalOverlap {
			continue
		}

		sourceID, targetID := prev.ID, insight.ID
		if !newHasSignal && prevHasSignal {
			sourceID, targetID = insight.ID, prev.ID
		}

		subType := causal.SuggestSubType(insight.Content + " " + prev.Content)

		if tryInsertCausal(s, &model.Edge{
			SourceID: sourceID, TargetID: targetID, EdgeType: "causal",
			Weight: overlap,
			Metadata: map[string]string{
				"overlap":  model.FormatFloat(overlap),
				"sub_type": subType,
			},
			CreatedAt: now,
		}) {
			count++
		}
	}

	return count
}

func tryInsertCausal(s CausalStore, e *model.Edge) bool {
	return s.InsertEdge(e) == nil
}

// CausalCandidate is a 2-hop BFS neighbor annotated with a causal-signal
// hint, the review surface behind `find_causal_candidates`.
type CausalCandidate struct {
	ID               string
	Content          string
	Category         string
	Hop              int
	ViaEdge          string
	CausalSignal     string
	SuggestedSubType string
}

// CausalCandidates surfaces up to MaxCausalCandidates insights reachable
// from insight within 2 hops of any edge type, each annotated with a
// causal-signal hint and a suggested sub-type, for the candidate
// suggestions returned by a write.
func CausalCandidates(insights []*model.Insight, edges []*model.Edge, insight *model.Insight) []CausalCandidate {
	hits := bfs.Run(insights, edges, insight.ID, bfs.Options{MaxDepth: 2, MaxNodes: MaxCausalCandidates})
	if len(hits) == 0 {
		return nil
	}

	candidates := make([]CausalCandidate, 0, len(hits))
	for _, h := range hits {
		signal := causal.FindSignal(h.Insight.Content)
		if signal == "" {
			signal = causal.FindSignal(insight.Content)
		}
		subType := causal.SuggestSubType(insight.Content + " " + h.Insight.Content)

		candidates = append(candidates, CausalCandidate{
			ID:               h.Insight.ID,
			Content:          h.Insight.Content,
			Category:         h.Insight.Category,
			Hop:              h.Hop,
			ViaEdge:          h.ViaEdge,
			CausalSignal:     signal,
			SuggestedSubType: subType,
		})
	}
	return candidates
}
