package store

import (
	"fmt"
	"time"

	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/retention"
)

// Stats summarizes a store's overall shape, the payload behind the
// `status` CLI command.
type Stats struct {
	TotalInsights  int
	TotalEdges     int
	ByCategory     map[string]int
	ByImportance   map[int]int
	OplogEntries   int
	EmbeddedCount  int
	UnembeddedCount int
}

// GetStats computes a Stats snapshot over the active insight set.
func GetStats(q querier) (*Stats, error) {
	s := &Stats{ByCategory: map[string]int{}, ByImportance: map[int]int{}}

	if err := q.QueryRow(`SELECT COUNT(*) FROM insights WHERE deleted_at IS NULL`).Scan(&s.TotalInsights); err != nil {
		return nil, fmt.Errorf("count insights: %w", err)
	}
	if err := q.QueryRow(`SELECT COUNT(*) FROM edges`).Scan(&s.TotalEdges); err != nil {
		return nil, fmt.Errorf("count edges: %w", err)
	}
	if err := q.QueryRow(`SELECT COUNT(*) FROM oplog`).Scan(&s.OplogEntries); err != nil {
		return nil, fmt.Errorf("count oplog: %w", err)
	}

	rows, err := q.Query(`SELECT category, COUNT(*) FROM insights WHERE deleted_at IS NULL GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			rows.Close()
			return nil, err
		}
		s.ByCategory[cat] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.Query(`SELECT importance, COUNT(*) FROM insights WHERE deleted_at IS NULL GROUP BY importance`)
	if err != nil {
		return nil, fmt.Errorf("importance breakdown: %w", err)
	}
	for rows.Next() {
		var imp, n int
		if err := rows.Scan(&imp, &n); err != nil {
			rows.Close()
			return nil, err
		}
		s.ByImportance[imp] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	embedded, unembedded, err := embeddingCounts(q)
	if err != nil {
		return nil, err
	}
	s.EmbeddedCount = embedded
	s.UnembeddedCount = unembedded

	return s, nil
}

func embeddingCounts(q querier) (embedded, unembedded int, err error) {
	if err = q.QueryRow(`SELECT COUNT(*) FROM insights
		WHERE deleted_at IS NULL AND embedding IS NOT NULL`).Scan(&embedded); err != nil {
		return 0, 0, fmt.Errorf("count embedded insights: %w", err)
	}
	if err = q.QueryRow(`SELECT COUNT(*) FROM insights
		WHERE deleted_at IS NULL AND embedding IS NULL`).Scan(&unembedded); err != nil {
		return 0, 0, fmt.Errorf("count unembedded insights: %w", err)
	}
	return embedded, unembedded, nil
}

// EmbeddingStats reports how much of the active corpus carries a
// vector embedding, the payload behind the `embed --status` surface.
type EmbeddingStats struct {
	Embedded   int
	Unembedded int
	Total      int
}

// GetEmbeddingStats computes an EmbeddingStats snapshot.
func GetEmbeddingStats(q querier) (*EmbeddingStats, error) {
	embedded, unembedded, err := embeddingCounts(q)
	if err != nil {
		return nil, err
	}
	return &EmbeddingStats{Embedded: embedded, Unembedded: unembedded, Total: embedded + unembedded}, nil
}

// GetInsightsWithoutEmbedding returns every active insight lacking a
// stored embedding, the work queue for a batch `embed` pass.
func GetInsightsWithoutEmbedding(q querier, limit int) ([]*model.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM insights
		WHERE deleted_at IS NULL AND embedding IS NULL ORDER BY created_at ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	out, err := queryInsights(q, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get insights without embedding: %w", err)
	}
	return out, nil
}

// UpdateEmbedding persists a serialized embedding for an insight.
func UpdateEmbedding(q querier, id string, raw []byte) error {
	_, err := q.Exec(`UPDATE insights SET embedding = ? WHERE id = ?`, raw, id)
	if err != nil {
		return fmt.Errorf("update embedding for %s: %w", id, err)
	}
	return nil
}

// GetRetentionCandidates returns active insights below the effective
// importance threshold (immune ones excluded), sorted ascending by
// effective importance, for review surfaces like `mnemon gc`'s candidate
// listing (gc without --keep).
func GetRetentionCandidates(q querier, threshold float64) ([]retention.Candidate, error) {
	insights, err := GetAllActiveInsights(q)
	if err != nil {
		return nil, err
	}
	candidates := make([]retention.Candidate, 0, len(insights))
	for _, ins := range insights {
		candidates = append(candidates, retention.Candidate{
			ID:                  ins.ID,
			Importance:          ins.Importance,
			AccessCount:         ins.AccessCount,
			EffectiveImportance: ins.EffectiveImportance,
		})
	}
	return retention.RetentionCandidates(candidates, threshold), nil
}

// RetentionCandidateDetail is one row of the `gc` review surface: an
// insight below the effective-importance threshold, plus the inputs that
// produced its score.
type RetentionCandidateDetail struct {
	Insight             *model.Insight
	EffectiveImportance float64
	DaysSinceAccess     float64
	EdgeCount           int
	Immune              bool
}

// GetRetentionCandidatesDetailed returns up to limit active insights below
// threshold (sorted ascending by effective importance), each annotated
// with the retention formula's inputs, plus the total active insight
// count for context.
func GetRetentionCandidatesDetailed(q querier, threshold float64, limit int, now time.Time) ([]RetentionCandidateDetail, int, error) {
	insights, err := GetAllActiveInsights(q)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[string]*model.Insight, len(insights))
	candidates := make([]retention.Candidate, 0, len(insights))
	for _, ins := range insights {
		byID[ins.ID] = ins
		candidates = append(candidates, retention.Candidate{
			ID:                  ins.ID,
			Importance:          ins.Importance,
			AccessCount:         ins.AccessCount,
			EffectiveImportance: ins.EffectiveImportance,
		})
	}

	ranked := retention.RetentionCandidates(candidates, threshold)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]RetentionCandidateDetail, 0, len(ranked))
	for _, c := range ranked {
		ins := byID[c.ID]
		if ins == nil {
			continue
		}
		edgeCount, err := CountEdgesForNode(q, ins.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, RetentionCandidateDetail{
			Insight:             ins,
			EffectiveImportance: ins.EffectiveImportance,
			DaysSinceAccess:     retention.DaysSinceAccess(now, ins.CreatedAt, ins.LastAccessedAt),
			EdgeCount:           edgeCount,
			Immune:              model.IsImmune(ins.Importance, ins.AccessCount),
		})
	}
	return out, len(insights), nil
}

// AutoPrune soft-deletes the lowest-EI non-immune insights once the active
// count exceeds retention.MaxInsights. The number of victims is capped at
// excess = min(total-MaxInsights, PruneBatchSize) — never more than the
// store is actually over cap — mirroring store/node.py:auto_prune.
// excludeIDs keeps ids (typically the insight just written in the same
// transaction) out of the victim pool regardless of their score.
func AutoPrune(q querier, excludeIDs ...string) ([]string, error) {
	total, err := CountActiveInsights(q)
	if err != nil {
		return nil, err
	}
	if total <= retention.MaxInsights {
		return nil, nil
	}

	excess := total - retention.MaxInsights
	if excess > retention.PruneBatchSize {
		excess = retention.PruneBatchSize
	}

	insights, err := GetAllActiveInsights(q)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	candidates := make([]retention.Candidate, 0, len(insights))
	for _, ins := range insights {
		candidates = append(candidates, retention.Candidate{
			ID:                  ins.ID,
			Importance:          ins.Importance,
			AccessCount:         ins.AccessCount,
			EffectiveImportance: ins.EffectiveImportance,
			Excluded:            excluded[ins.ID],
		})
	}

	victims := retention.SelectPruneVictims(candidates, excess)
	for _, id := range victims {
		if err := SoftDeleteInsight(q, id); err != nil {
			return nil, fmt.Errorf("auto-prune %s: %w", id, err)
		}
		if err := AppendOplog(q, "prune", id, "auto-pruned: over retention cap"); err != nil {
			return nil, err
		}
	}
	return victims, nil
}

// RefreshAllEffectiveImportance recomputes effective_importance for every
// active insight in one pass, the batched maintenance step the original
// store ran best-effort in its own transaction independent of whatever
// write triggered it. A failure partway through still leaves earlier
// updates committed by the caller's own transaction boundary; callers
// that want all-or-nothing semantics should wrap this in
// Store.InTransaction themselves.
func RefreshAllEffectiveImportance(q querier, now time.Time) error {
	insights, err := GetAllActiveInsights(q)
	if err != nil {
		return err
	}
	for _, ins := range insights {
		edgeCount, err := CountEdgesForNode(q, ins.ID)
		if err != nil {
			return err
		}
		days := retention.DaysSinceAccess(now, ins.CreatedAt, ins.LastAccessedAt)
		ei := retention.ComputeEffectiveImportance(ins.Importance, ins.AccessCount, days, edgeCount)
		if err := RefreshEffectiveImportance(q, ins.ID, ei); err != nil {
			return err
		}
	}
	return nil
}
