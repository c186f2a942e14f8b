package mnemon

import (
	"context"
	"os"
	"time"

	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/retention"
	"github.com/bissli/mnemon/internal/store"
	"github.com/bissli/mnemon/internal/vector"
)

// DefaultGCThreshold is the effective-importance cutoff `gc` ranks
// candidates against when the caller doesn't supply one.
const DefaultGCThreshold = 0.5

// Forget soft-deletes an insight by id, leaving it in place for oplog
// history but excluded from every future read path.
func (m *Mnemon) Forget(id string) error {
	if ins, err := store.GetInsightByID(m.store.DB(), id); err != nil || ins == nil {
		return preconditionErrorf("insight %q not found", id)
	}
	if err := store.SoftDeleteInsight(m.store.DB(), id); err != nil {
		return err
	}
	return store.AppendOplog(m.store.DB(), "forget", id, "")
}

// StatusResult is the payload behind the `status` command.
type StatusResult struct {
	Stats     *store.Stats
	Path      string
	SizeBytes int64
}

// Status reports the store's shape and on-disk size.
func (m *Mnemon) Status() (*StatusResult, error) {
	stats, err := store.GetStats(m.store.DB())
	if err != nil {
		return nil, err
	}
	path := m.store.Path()
	size := int64(0)
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}
	return &StatusResult{Stats: stats, Path: path, SizeBytes: size}, nil
}

// Log returns the newest limit oplog entries, newest first.
func (m *Mnemon) Log(limit int) ([]store.OplogEntry, error) {
	return store.RecentOplog(m.store.DB(), limit)
}

// GCResult is the payload behind the `gc` command: either a prune-victim
// listing, or confirmation that a single insight's retention was boosted.
type GCResult struct {
	Candidates              []store.RetentionCandidateDetail
	TotalAdmissibleInsights int
	Boosted                 *model.Insight
}

// GC either boosts the retention of keepID (marking it immune to the
// next auto-prune) or, when keepID is empty, lists prune candidates
// ranked by effective importance under threshold.
func (m *Mnemon) GC(keepID string, threshold float64, limit int) (*GCResult, error) {
	if keepID != "" {
		ins, err := store.GetInsightByID(m.store.DB(), keepID)
		if err != nil || ins == nil {
			return nil, preconditionErrorf("insight %q not found", keepID)
		}
		if err := store.BoostRetention(m.store.DB(), keepID); err != nil {
			return nil, err
		}
		edgeCount, err := store.CountEdgesForNode(m.store.DB(), keepID)
		if err != nil {
			edgeCount = 0
		}
		now := time.Now().UTC()
		days := retention.DaysSinceAccess(now, ins.CreatedAt, now)
		newAccess := ins.AccessCount + 3
		ei := retention.ComputeEffectiveImportance(ins.Importance, newAccess, days, edgeCount)
		if err := store.RefreshEffectiveImportance(m.store.DB(), keepID, ei); err != nil {
			return nil, err
		}
		if err := store.AppendOplog(m.store.DB(), "gc-keep", keepID, "access+3"); err != nil {
			return nil, err
		}
		ins.AccessCount = newAccess
		ins.EffectiveImportance = ei
		return &GCResult{Boosted: ins}, nil
	}

	candidates, total, err := store.GetRetentionCandidatesDetailed(m.store.DB(), threshold, limit, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &GCResult{Candidates: candidates, TotalAdmissibleInsights: total}, nil
}

// EmbedStatusResult is the payload behind `embed --status`.
type EmbedStatusResult struct {
	Stats     *store.EmbeddingStats
	Available bool
	Model     string
}

// EmbedStatus reports how much of the active corpus carries a vector
// embedding, and whether the embedding service is currently reachable.
func (m *Mnemon) EmbedStatus(ctx context.Context) (*EmbedStatusResult, error) {
	stats, err := store.GetEmbeddingStats(m.store.DB())
	if err != nil {
		return nil, err
	}
	return &EmbedStatusResult{Stats: stats, Available: m.embed.Available(ctx), Model: m.embed.Model}, nil
}

// EmbedResult is the payload behind a backfill or single-id embed run.
type EmbedResult struct {
	Embedded []string
	Skipped  []string
}

// EmbedAll embeds every active insight lacking a vector, up to limit (0
// means unlimited). It returns a PreconditionError if the embedding
// service is down.
func (m *Mnemon) EmbedAll(ctx context.Context, limit int) (*EmbedResult, error) {
	if !m.embed.Available(ctx) {
		return nil, preconditionErrorf("embedding service unavailable: %s", m.embed.UnavailableMessage())
	}
	insights, err := store.GetInsightsWithoutEmbedding(m.store.DB(), limit)
	if err != nil {
		return nil, err
	}
	res := &EmbedResult{}
	for _, ins := range insights {
		v, err := m.embed.Embed(ctx, ins.Content)
		if err != nil {
			res.Skipped = append(res.Skipped, ins.ID)
			continue
		}
		if err := store.UpdateEmbedding(m.store.DB(), ins.ID, vector.Serialize(v)); err != nil {
			res.Skipped = append(res.Skipped, ins.ID)
			continue
		}
		res.Embedded = append(res.Embedded, ins.ID)
	}
	if err := store.AppendOplog(m.store.DB(), "embed-backfill", "", "embedded="+itoa(len(res.Embedded))+" skipped="+itoa(len(res.Skipped))); err != nil {
		return nil, err
	}
	return res, nil
}

// EmbedOne embeds a single insight by id, overwriting any existing vector.
func (m *Mnemon) EmbedOne(ctx context.Context, id string) error {
	if !m.embed.Available(ctx) {
		return preconditionErrorf("embedding service unavailable: %s", m.embed.UnavailableMessage())
	}
	ins, err := store.GetInsightByID(m.store.DB(), id)
	if err != nil || ins == nil {
		return preconditionErrorf("insight %q not found", id)
	}
	v, err := m.embed.Embed(ctx, ins.Content)
	if err != nil {
		return err
	}
	if err := store.UpdateEmbedding(m.store.DB(), id, vector.Serialize(v)); err != nil {
		return err
	}
	return store.AppendOplog(m.store.DB(), "embed", id, "")
}
