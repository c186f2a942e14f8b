// Package retention implements the effective-importance formula and the
// prune/candidate-selection policy built on top of it. The formula is a
// pure function; internal/store owns the SQL needed to gather inputs and
// apply the resulting soft-deletes inside its transactions.
package retention

import (
	"math"
	"sort"
	"time"

	"github.com/bissli/mnemon/internal/model"
)

// MaxInsights is the hard cap on active insights enforced by auto-prune
// after every write.
const MaxInsights = 1000

// PruneBatchSize is the maximum number of victims soft-deleted per
// auto-prune pass.
const PruneBatchSize = 10

// halfLifeDays is the exponential decay half-life (in days since last
// access) used by the effective-importance formula.
const halfLifeDays = 30.0

// ComputeEffectiveImportance is the pure retention scoring function:
//
//	EI = base_weight(importance) * max(1, ln(1+access_count))
//	     * 0.5^(days_since_access/30) * (1 + 0.1*min(edge_count, 5))
func ComputeEffectiveImportance(importance, accessCount int, daysSinceAccess float64, edgeCount int) float64 {
	base := model.BaseWeight(importance)

	accessFactor := math.Log(1 + float64(accessCount))
	if accessFactor < 1 {
		accessFactor = 1
	}

	decay := math.Pow(0.5, daysSinceAccess/halfLifeDays)

	cappedEdges := edgeCount
	if cappedEdges > 5 {
		cappedEdges = 5
	}
	edgeFactor := 1 + 0.1*float64(cappedEdges)

	return base * accessFactor * decay * edgeFactor
}

// DaysSinceAccess returns the number of days between `now` and the more
// relevant of lastAccessedAt (if set, non-zero) or createdAt.
func DaysSinceAccess(now, createdAt, lastAccessedAt time.Time) float64 {
	ref := createdAt
	if !lastAccessedAt.IsZero() {
		ref = lastAccessedAt
	}
	return now.Sub(ref).Hours() / 24.0
}

// Candidate is a pruning candidate: enough information to rank and
// select victims without touching the store again.
type Candidate struct {
	ID                  string
	Importance          int
	AccessCount         int
	EffectiveImportance float64
	Excluded            bool
}

// SelectPruneVictims returns up to maxVictims non-immune, non-excluded
// candidates (importance<4 AND access_count<3) ordered by effective
// importance ascending. maxVictims is the caller-computed excess over
// MaxInsights, itself capped at PruneBatchSize — mirroring
// store/node.py:auto_prune's `excess = min(total - max_insights,
// PRUNE_BATCH_SIZE)` so a single auto-prune pass never drops more than
// the store is actually over cap.
func SelectPruneVictims(candidates []Candidate, maxVictims int) []string {
	if maxVictims <= 0 {
		return nil
	}

	var eligible []Candidate
	for _, c := range candidates {
		if c.Excluded {
			continue
		}
		if model.IsImmune(c.Importance, c.AccessCount) {
			continue
		}
		eligible = append(eligible, c)
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].EffectiveImportance < eligible[j].EffectiveImportance
	})

	if len(eligible) > maxVictims {
		eligible = eligible[:maxVictims]
	}

	ids := make([]string, len(eligible))
	for i, c := range eligible {
		ids[i] = c.ID
	}
	return ids
}

// RetentionCandidates returns candidates below threshold, immune ones
// excluded, sorted by effective importance ascending — the review-only
// surfacing behind `mnemon gc`'s candidate listing (as opposed to
// SelectPruneVictims's auto-prune path, which is unconditional on
// threshold and only gated by the MaxInsights cap).
func RetentionCandidates(candidates []Candidate, threshold float64) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if model.IsImmune(c.Importance, c.AccessCount) {
			continue
		}
		if c.EffectiveImportance >= threshold {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EffectiveImportance < out[j].EffectiveImportance
	})
	return out
}
