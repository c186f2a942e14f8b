package mnemon

import (
	"context"

	"github.com/bissli/mnemon/internal/entity"
	"github.com/bissli/mnemon/internal/keyword"
	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/recall"
	"github.com/bissli/mnemon/internal/store"
)

// RecallRequest is the validated input to Recall.
type RecallRequest struct {
	Query  string
	Limit  int
	Intent string // "" for auto-detect
}

// Recall runs the full intent-aware retrieval pipeline: embed the query
// (if an embedding service is available), extract query entities, fuse
// keyword/vector/recency anchors, beam search the typed edge graph, and
// rerank. Every returned insight's access count is bumped.
func (m *Mnemon) Recall(ctx context.Context, req RecallRequest) (*recall.Output, error) {
	var queryVec []float64
	if m.embed.Available(ctx) {
		if v, err := m.embed.Embed(ctx, req.Query); err == nil {
			queryVec = v
		}
	}

	queryEntities := entity.Extract(req.Query)

	adapter := storeAdapter{q: m.store.DB()}
	out, err := recall.IntentAwareRecall(adapter, req.Query, queryVec, queryEntities, req.Limit, req.Intent)
	if err != nil {
		return nil, err
	}

	for _, r := range out.Results {
		_ = store.IncrementAccessCount(m.store.DB(), r.Insight.ID)
	}

	detail := ""
	if req.Intent == "" {
		detail = "basic=false"
	}
	_ = store.AppendOplog(m.store.DB(), "recall", "", "q="+req.Query+" hits="+itoa(len(out.Results))+" "+detail)
	return out, nil
}

// BasicRecallRequest is the input to RecallBasic, the plain SQL LIKE
// matching path (`recall --basic`).
type BasicRecallRequest struct {
	Keyword  string
	Category string
	Source   string
	Limit    int
}

// RecallBasic runs a plain substring/field-filter query against the
// store, bypassing the intent-aware pipeline entirely.
func (m *Mnemon) RecallBasic(req BasicRecallRequest) ([]*model.Insight, error) {
	results, err := store.QueryInsights(m.store.DB(), store.QueryFilters{
		Keyword: req.Keyword, Category: req.Category, Source: req.Source, Limit: req.Limit,
	})
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		_ = store.IncrementAccessCount(m.store.DB(), r.ID)
	}
	_ = store.AppendOplog(m.store.DB(), "recall:basic", "", "q="+req.Keyword+" hits="+itoa(len(results)))
	return results, nil
}

// SearchRequest is the input to Search, the plain token-overlap path
// (`search` command, as distinct from the graph-aware `recall`).
type SearchRequest struct {
	Query string
	Limit int
}

// Search scores every active insight by token overlap with the query and
// returns the top matches, bumping each result's access count.
func (m *Mnemon) Search(req SearchRequest) ([]keyword.Scored, error) {
	allInsights, err := store.GetAllActiveInsights(m.store.DB())
	if err != nil {
		return nil, err
	}
	results := keyword.KeywordSearch(allInsights, req.Query, req.Limit, nil)
	for _, r := range results {
		_ = store.IncrementAccessCount(m.store.DB(), r.Insight.ID)
	}
	_ = store.AppendOplog(m.store.DB(), "search", "", "q="+req.Query+" hits="+itoa(len(results)))
	return results, nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
