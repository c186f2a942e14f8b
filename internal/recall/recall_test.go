package recall

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/store"
)

// fakeStore is an in-memory recall.Store over a fixed insight/edge set.
type fakeStore struct {
	insights   []*model.Insight
	edges      []*model.Edge
	embeddings []store.EmbeddedInsight
}

func (f *fakeStore) GetAllActiveInsights() ([]*model.Insight, error) {
	return f.insights, nil
}

func (f *fakeStore) GetAllEmbeddings() ([]store.EmbeddedInsight, error) {
	return f.embeddings, nil
}

func (f *fakeStore) GetEdgesForNode(id string) ([]*model.Edge, error) {
	var out []*model.Edge
	for _, e := range f.edges {
		if e.SourceID == id || e.TargetID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetInsightByID(id string) (*model.Insight, error) {
	for _, ins := range f.insights {
		if ins.ID == id {
			return ins, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetOutgoingEdgesByType(id, edgeType string) ([]*model.Edge, error) {
	var out []*model.Edge
	for _, e := range f.edges {
		if e.SourceID == id && e.EdgeType == edgeType {
			out = append(out, e)
		}
	}
	return out, nil
}

func ins(id, content string, importance int, createdAt time.Time) *model.Insight {
	return &model.Insight{
		ID: id, Content: content, Category: "fact", Importance: importance,
		CreatedAt: createdAt, UpdatedAt: createdAt, LastAccessedAt: createdAt,
	}
}

func TestDetectIntent(t *testing.T) {
	assert.Equal(t, IntentWhy, DetectIntent("why did we pick SQLite?"))
	assert.Equal(t, IntentWhen, DetectIntent("when did we deploy the change?"))
	assert.Equal(t, IntentEntity, DetectIntent("tell me about the embedding client"))
	assert.Equal(t, IntentGeneral, DetectIntent("SQLite storage layer"))
}

func TestParseIntentRejectsUnknown(t *testing.T) {
	_, err := ParseIntent("bogus")
	assert.Error(t, err)

	v, err := ParseIntent("why")
	require.NoError(t, err)
	assert.Equal(t, IntentWhy, v)
}

func TestVectorSearchFromCacheFiltersAndOrders(t *testing.T) {
	cache := map[string][]float64{
		"a": {1, 0, 0},
		"b": {0.9, 0.1, 0},
		"c": {0, 1, 0}, // orthogonal, below floor
	}
	hits := VectorSearchFromCache(cache, []float64{1, 0, 0}, 10)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "b", hits[1].ID)
}

func TestIntentAwareRecallKeywordAnchorAndBeamSearch(t *testing.T) {
	now := time.Now().UTC()
	a := ins("a", "we switched to SQLite for simpler deploys", 5, now.Add(-time.Hour))
	b := ins("b", "the deploy pipeline now runs in a single binary", 3, now)

	s := &fakeStore{
		insights: []*model.Insight{a, b},
		edges: []*model.Edge{
			{SourceID: "a", TargetID: "b", EdgeType: "temporal", Weight: 1.0, CreatedAt: now},
		},
	}

	out, err := IntentAwareRecall(s, "SQLite deploy", nil, nil, 10, "")
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)
	assert.Equal(t, IntentGeneral, out.Meta.Intent)
	assert.Equal(t, "auto", out.Meta.IntentSource)

	var gotA, gotB bool
	for _, r := range out.Results {
		if r.Insight.ID == "a" {
			gotA = true
		}
		if r.Insight.ID == "b" {
			gotB = true
		}
	}
	assert.True(t, gotA)
	assert.True(t, gotB, "b matches the query token 'deploy' and should be in the results")
}

func TestIntentAwareRecallHonorsIntentOverride(t *testing.T) {
	now := time.Now().UTC()
	s := &fakeStore{insights: []*model.Insight{ins("a", "hello", 3, now)}}
	out, err := IntentAwareRecall(s, "hello", nil, nil, 5, "when")
	require.NoError(t, err)
	assert.Equal(t, IntentWhen, out.Meta.Intent)
	assert.Equal(t, "override", out.Meta.IntentSource)
}

func TestIntentAwareRecallRejectsBadOverride(t *testing.T) {
	s := &fakeStore{}
	_, err := IntentAwareRecall(s, "hello", nil, nil, 5, "nonsense")
	assert.Error(t, err)
}

func TestCausalTopologicalSortOrdersCausesBeforeEffects(t *testing.T) {
	now := time.Now().UTC()
	cause := ins("cause", "root cause", 4, now)
	effect := ins("effect", "downstream effect", 4, now)

	s := &fakeStore{
		insights: []*model.Insight{cause, effect},
		edges: []*model.Edge{
			{SourceID: "cause", TargetID: "effect", EdgeType: "causal", Weight: 1.0, CreatedAt: now},
		},
	}

	results := []Result{
		{Insight: effect, Score: 0.9},
		{Insight: cause, Score: 0.1},
	}

	ordered, err := causalTopologicalSort(s, results)
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, "cause", ordered[0].Insight.ID)
	assert.Equal(t, "effect", ordered[1].Insight.ID)
}

func TestIntentAwareRecallSparseHint(t *testing.T) {
	s := &fakeStore{}
	out, err := IntentAwareRecall(s, "anything", nil, nil, 10, "")
	require.NoError(t, err)
	assert.Equal(t, "sparse_results", out.Meta.Hint)
}
