package edgegen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bissli/mnemon/internal/model"
)

// fakeStore is an in-memory stand-in for internal/store satisfying every
// small interface the edge generators need.
type fakeStore struct {
	insights []*model.Insight
	edges    []*model.Edge
}

func (f *fakeStore) InsertEdge(e *model.Edge) error {
	f.edges = append(f.edges, e)
	return nil
}

func (f *fakeStore) LatestInsightBySource(source, excludeID string) (*model.Insight, error) {
	var best *model.Insight
	for _, ins := range f.insights {
		if ins.Source != source || ins.ID == excludeID {
			continue
		}
		if best == nil || ins.CreatedAt.After(best.CreatedAt) {
			best = ins
		}
	}
	return best, nil
}

func (f *fakeStore) RecentInsightsInWindow(excludeID string, windowHours float64, limit int) ([]*model.Insight, error) {
	var out []*model.Insight
	for _, ins := range f.insights {
		if ins.ID == excludeID {
			continue
		}
		out = append(out, ins)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) RecentActiveInsights(excludeID string, limit int) ([]*model.Insight, error) {
	return f.RecentInsightsInWindow(excludeID, 0, limit)
}

func (f *fakeStore) CountActiveInsights() (int, error) {
	return len(f.insights), nil
}

func (f *fakeStore) FindInsightsWithEntity(ent, excludeID string, limit int) ([]string, error) {
	var out []string
	for _, ins := range f.insights {
		if ins.ID == excludeID {
			continue
		}
		for _, e := range ins.Entities {
			if e == ent {
				out = append(out, ins.ID)
				break
			}
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) CountInsightsWithEntity(ent, excludeID string) (int, error) {
	ids, err := f.FindInsightsWithEntity(ent, excludeID, 1<<30)
	return len(ids), err
}

func newInsight(id, source, content string, createdAt time.Time) *model.Insight {
	return &model.Insight{
		ID: id, Source: source, Content: content, Category: "fact", Importance: 3,
		CreatedAt: createdAt, UpdatedAt: createdAt, LastAccessedAt: createdAt,
	}
}

func TestCreateTemporalEdgesBackboneAndProximity(t *testing.T) {
	now := time.Now().UTC()
	prev := newInsight("a", "cli", "first insight", now.Add(-1*time.Hour))
	store := &fakeStore{insights: []*model.Insight{prev}}

	next := newInsight("b", "cli", "second insight", now)
	count := CreateTemporalEdges(store, next)

	require.Equal(t, 2, count) // backbone precedes + succeeds, no separate proximity (same node)
	assert.Len(t, store.edges, 2)
}

func TestCreateEntityEdgesUsesFlatWeightForSmallCorpus(t *testing.T) {
	other := newInsight("x", "cli", "mentions Go", time.Now())
	other.Entities = []string{"Go"}
	store := &fakeStore{insights: []*model.Insight{other}}

	ins := newInsight("y", "cli", "also mentions Go", time.Now())
	ins.Entities = []string{"Go"}

	count := CreateEntityEdges(store, ins)
	require.Equal(t, 2, count)
	assert.Equal(t, 1.0, store.edges[0].Weight)
}

func TestCreateCausalEdgesRequiresSignalAndOverlap(t *testing.T) {
	prev := newInsight("p", "cli", "We switched to SQLite because it is simpler to deploy", time.Now())
	store := &fakeStore{insights: []*model.Insight{prev}}

	ins := newInsight("n", "cli", "The deploy process is simpler to operate because of SQLite", time.Now())
	count := CreateCausalEdges(store, ins)
	assert.Equal(t, 1, count)
	if count == 1 {
		assert.Equal(t, "causal", store.edges[0].EdgeType)
	}
}

func TestCreateSemanticEdgesAutoLinksAboveThreshold(t *testing.T) {
	cache := EmbedCache{
		"a": {1, 0, 0},
		"b": {1, 0, 0.001},
	}
	store := &fakeStore{}
	ins := &model.Insight{ID: "a"}

	count := CreateSemanticEdges(store, ins, cache)
	require.Equal(t, 2, count)
	assert.Equal(t, "semantic", store.edges[0].EdgeType)
}

func TestCreateSemanticEdgesNoCacheIsNoop(t *testing.T) {
	store := &fakeStore{}
	ins := &model.Insight{ID: "a"}
	assert.Equal(t, 0, CreateSemanticEdges(store, ins, nil))
}
