package mnemon

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/bissli/mnemon/internal/diff"
	"github.com/bissli/mnemon/internal/edgegen"
	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/quality"
	"github.com/bissli/mnemon/internal/retention"
	"github.com/bissli/mnemon/internal/store"
	"github.com/bissli/mnemon/internal/vector"
)

// RememberRequest is the validated input to Remember.
type RememberRequest struct {
	Content    string
	Category   string
	Importance int
	Tags       []string
	Entities   []string
	Source     string
	NoDiff     bool
}

// RememberResult is the full outcome of a Remember call, the payload
// behind the `remember` command's JSON output.
type RememberResult struct {
	ID                  string
	Content             string
	Category            string
	Importance          int
	Tags                []string
	Entities            []string
	Action              string // "added", "updated", "skipped"
	DiffSuggestion      string
	ReplacedID          string
	CreatedAt           time.Time
	EdgesCreated        edgegen.Stats
	SemanticCandidates  []edgegen.SemanticCandidate
	CausalCandidates    []edgegen.CausalCandidate
	QualityWarnings     []string
	Embedded            bool
	EffectiveImportance float64
	AutoPruned          []string
}

// validateRemember checks req against the bounds spec'd for remembered
// content, returning a *ValidationError on the first violation found.
func validateRemember(req RememberRequest) error {
	if n := len([]byte(req.Content)); n > maxContentBytes {
		return validationErrorf("content too long (%d bytes, max %d); consider chunking into multiple remember calls", n, maxContentBytes)
	}
	if !model.ValidCategories[req.Category] {
		return validationErrorf("invalid category %q; valid: preference, decision, fact, insight, context, general", req.Category)
	}
	if req.Importance < 1 || req.Importance > 5 {
		return validationErrorf("importance must be 1-5, got %d", req.Importance)
	}
	if len(req.Tags) > maxTags {
		return validationErrorf("too many tags (%d, max %d)", len(req.Tags), maxTags)
	}
	for _, t := range req.Tags {
		if len(t) > maxTagLen {
			return validationErrorf("tag too long (%d chars, max %d): %s", len(t), maxTagLen, truncate(t, 50))
		}
	}
	if len(req.Entities) > maxEntities {
		return validationErrorf("too many entities (%d, max %d)", len(req.Entities), maxEntities)
	}
	for _, e := range req.Entities {
		if len(e) > maxEntityLen {
			return validationErrorf("entity too long (%d chars, max %d): %s", len(e), maxEntityLen, truncate(e, 50))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Remember validates req, runs duplicate/conflict detection against the
// existing corpus (unless NoDiff), inserts (or soft-delete-replaces) the
// resulting insight inside a single transaction along with every edge the
// write triggers, then refreshes retention and runs auto-prune.
func (m *Mnemon) Remember(ctx context.Context, req RememberRequest) (*RememberResult, error) {
	if err := validateRemember(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	insight := &model.Insight{
		ID: uuid.New().String(), Content: req.Content, Category: req.Category,
		Importance: req.Importance, Tags: req.Tags, Entities: req.Entities,
		Source: req.Source, CreatedAt: now, UpdatedAt: now, LastAccessedAt: now,
	}

	var embeddingVec []float64
	var embeddingBlob []byte
	if m.embed.Available(ctx) {
		if v, err := m.embed.Embed(ctx, req.Content); err == nil {
			embeddingVec = v
			embeddingBlob = vector.Serialize(v)
		}
	}

	embedCache, err := m.loadEmbedCacheIfAvailable(ctx)
	if err != nil {
		return nil, err
	}

	diffAction := "added"
	diffSuggestion := string(diff.Add)
	replacedID := ""

	if !req.NoDiff {
		allInsights, err := store.GetAllActiveInsights(m.store.DB())
		if err != nil {
			return nil, err
		}
		var existingEmbeds []diff.EmbeddingPair
		for id, v := range embedCache {
			existingEmbeds = append(existingEmbeds, diff.EmbeddingPair{ID: id, Vector: v})
		}
		result := diff.Diff(allInsights, req.Content, 5, embeddingVec, existingEmbeds)
		diffSuggestion = string(result.Suggestion)

		switch result.Suggestion {
		case diff.Duplicate:
			diffAction = "skipped"
			if len(result.Matches) > 0 {
				replacedID = result.Matches[0].ID
			}
		case diff.Conflict, diff.Update:
			diffAction = "updated"
			if len(result.Matches) > 0 {
				replacedID = result.Matches[0].ID
			}
		default:
			diffAction = "added"
		}
	}

	qualityWarnings := quality.Check(req.Content)

	if diffAction == "skipped" {
		if err := store.AppendOplog(m.store.DB(), "diff-skip", insight.ID, "duplicate of "+replacedID); err != nil {
			return nil, err
		}
		return &RememberResult{
			ID: insight.ID, Content: req.Content, Action: "skipped",
			DiffSuggestion: diffSuggestion, ReplacedID: replacedID,
			QualityWarnings: qualityWarnings,
		}, nil
	}

	var edgeStats edgegen.Stats
	var ei float64
	var pruned []string
	embedded := false

	err = m.store.InTransaction(func(tx *sql.Tx) error {
		if diffAction == "updated" && replacedID != "" {
			if err := store.SoftDeleteInsight(tx, replacedID); err != nil {
				return err
			}
			if err := store.AppendOplog(tx, "diff-replace", replacedID, "replaced by "+insight.ID); err != nil {
				return err
			}
			delete(embedCache, replacedID)
		}

		if err := store.InsertInsight(tx, insight); err != nil {
			return err
		}

		if embeddingBlob != nil {
			if err := store.UpdateEmbedding(tx, insight.ID, embeddingBlob); err != nil {
				return err
			}
			embedded = true
			if embedCache != nil {
				embedCache[insight.ID] = embeddingVec
			}
		}

		adapter := storeAdapter{q: tx}
		edgeStats = edgegen.OnInsightCreated(adapter, insight, embedCache)

		if len(insight.Entities) > 0 {
			if err := store.UpdateEntities(tx, insight.ID, insight.Entities); err != nil {
				return err
			}
		}

		edgeCount, err := store.CountEdgesForNode(tx, insight.ID)
		if err != nil {
			edgeCount = 0
		}
		days := retention.DaysSinceAccess(now, insight.CreatedAt, insight.LastAccessedAt)
		ei = retention.ComputeEffectiveImportance(insight.Importance, insight.AccessCount, days, edgeCount)
		if err := store.RefreshEffectiveImportance(tx, insight.ID, ei); err != nil {
			ei = 0
		}

		pruned, err = store.AutoPrune(tx, insight.ID)
		if err != nil {
			pruned = nil
		}

		if err := store.AppendOplog(tx, "remember", insight.ID, insight.Content); err != nil {
			fmt.Fprintln(os.Stderr, "mnemon: oplog append failed:", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	allActive, err := store.GetAllActiveInsights(m.store.DB())
	if err != nil {
		allActive = nil
	}
	allEdges, err := store.GetAllEdges(m.store.DB())
	if err != nil {
		allEdges = nil
	}

	semanticCandidates := edgegen.SemanticCandidates(insight, embedCache, func(id string) (*model.Insight, error) {
		return store.GetInsightByID(m.store.DB(), id)
	}, allActive)
	causalCandidates := edgegen.CausalCandidates(allActive, allEdges, insight)

	return &RememberResult{
		ID: insight.ID, Content: insight.Content, Category: insight.Category,
		Importance: insight.Importance, Tags: insight.Tags, Entities: insight.Entities,
		Action: diffAction, DiffSuggestion: diffSuggestion, ReplacedID: replacedID,
		CreatedAt: insight.CreatedAt, EdgesCreated: edgeStats,
		SemanticCandidates: semanticCandidates, CausalCandidates: causalCandidates,
		QualityWarnings: qualityWarnings, Embedded: embedded,
		EffectiveImportance: ei, AutoPruned: pruned,
	}, nil
}

func (m *Mnemon) loadEmbedCacheIfAvailable(ctx context.Context) (edgegen.EmbedCache, error) {
	if !m.embed.Available(ctx) {
		return nil, nil
	}
	raw, err := store.GetAllEmbeddings(m.store.DB())
	if err != nil {
		return nil, err
	}
	return edgegen.BuildEmbedCache(raw), nil
}
