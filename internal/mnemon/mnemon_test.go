package mnemon

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestMnemon(t *testing.T) *Mnemon {
	t.Helper()
	dir := t.TempDir()
	m, err := Open(dir, "test")
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestOpenCreatesStoreFile(t *testing.T) {
	dir := t.TempDir()
	m, err := Open(dir, "test")
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, filepath.Join(dir, "data", "test", "mnemon.db"), m.Path())
}

func TestRememberValidation(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	_, err := m.Remember(ctx, RememberRequest{Content: "x", Category: "bogus", Importance: 3})
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = m.Remember(ctx, RememberRequest{Content: "x", Category: "fact", Importance: 9})
	require.Error(t, err)

	_, err = m.Remember(ctx, RememberRequest{Content: "x", Category: "fact", Importance: 3, Tags: []string{"a", "b"}})
	require.NoError(t, err)
}

func TestRememberAddsAndForgets(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	res, err := m.Remember(ctx, RememberRequest{
		Content: "the deploy pipeline uses GitHub Actions", Category: "fact", Importance: 3, Source: "user",
	})
	require.NoError(t, err)
	assert.Equal(t, "added", res.Action)
	assert.NotEmpty(t, res.ID)

	status, err := m.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, status.Stats.TotalInsights)

	require.NoError(t, m.Forget(res.ID))

	status, err = m.Status()
	require.NoError(t, err)
	assert.Equal(t, 0, status.Stats.TotalInsights)

	err = m.Forget("does-not-exist")
	require.Error(t, err)
	var perr *PreconditionError
	assert.ErrorAs(t, err, &perr)
}

func TestRememberDuplicateSkipped(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	content := "the staging database runs Postgres 16"
	first, err := m.Remember(ctx, RememberRequest{Content: content, Category: "fact", Importance: 3})
	require.NoError(t, err)
	assert.Equal(t, "added", first.Action)

	second, err := m.Remember(ctx, RememberRequest{Content: content, Category: "fact", Importance: 3})
	require.NoError(t, err)
	assert.Equal(t, "skipped", second.Action)
	assert.Equal(t, first.ID, second.ReplacedID)
}

func TestRememberNoDiffBypassesDedup(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	content := "the staging database runs Postgres 16"
	_, err := m.Remember(ctx, RememberRequest{Content: content, Category: "fact", Importance: 3})
	require.NoError(t, err)

	second, err := m.Remember(ctx, RememberRequest{Content: content, Category: "fact", Importance: 3, NoDiff: true})
	require.NoError(t, err)
	assert.Equal(t, "added", second.Action)
}

func TestSearchFindsByTokenOverlap(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	_, err := m.Remember(ctx, RememberRequest{Content: "prefers dark mode in every editor", Category: "preference", Importance: 3})
	require.NoError(t, err)
	_, err = m.Remember(ctx, RememberRequest{Content: "unrelated content about lunch", Category: "general", Importance: 1})
	require.NoError(t, err)

	results, err := m.Search(SearchRequest{Query: "dark mode editor", Limit: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Insight.Content, "dark mode")
}

func TestRecallReturnsRememberedInsight(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	_, err := m.Remember(ctx, RememberRequest{Content: "decided to use SQLite for local storage", Category: "decision", Importance: 4})
	require.NoError(t, err)

	out, err := m.Recall(ctx, RecallRequest{Query: "SQLite storage decision", Limit: 5})
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestLinkAndRelated(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	a, err := m.Remember(ctx, RememberRequest{Content: "insight A about caching", Category: "insight", Importance: 3, NoDiff: true})
	require.NoError(t, err)
	b, err := m.Remember(ctx, RememberRequest{Content: "insight B about invalidation", Category: "insight", Importance: 3, NoDiff: true})
	require.NoError(t, err)

	edge, err := m.Link(LinkRequest{SourceID: a.ID, TargetID: b.ID, EdgeType: "causal", Weight: 0.8})
	require.NoError(t, err)
	assert.Equal(t, "causal", edge.EdgeType)

	_, err = m.Link(LinkRequest{SourceID: a.ID, TargetID: b.ID, EdgeType: "bogus", Weight: 0.5})
	require.Error(t, err)

	_, err = m.Link(LinkRequest{SourceID: a.ID, TargetID: "missing", EdgeType: "causal", Weight: 0.5})
	require.Error(t, err)

	hits, err := m.Related(RelatedRequest{ID: a.ID, Depth: 2, Limit: 10})
	require.NoError(t, err)
	var found bool
	for _, h := range hits {
		if h.Insight.ID == b.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestGCListsCandidatesAndBoosts(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	ins, err := m.Remember(ctx, RememberRequest{Content: "low importance note", Category: "general", Importance: 1, NoDiff: true})
	require.NoError(t, err)

	res, err := m.GC("", DefaultGCThreshold, 10)
	require.NoError(t, err)
	assert.NotNil(t, res)

	boosted, err := m.GC(ins.ID, DefaultGCThreshold, 0)
	require.NoError(t, err)
	require.NotNil(t, boosted.Boosted)
	assert.Equal(t, ins.ID, boosted.Boosted.ID)

	_, err = m.GC("missing-id", DefaultGCThreshold, 0)
	require.Error(t, err)
}

func TestLogRecordsOperations(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	_, err := m.Remember(ctx, RememberRequest{Content: "something to log", Category: "general", Importance: 2, NoDiff: true})
	require.NoError(t, err)

	entries, err := m.Log(10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "remember", entries[0].Kind)
}

func TestEmbedStatusWithoutEmbeddingService(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	_, err := m.Remember(ctx, RememberRequest{Content: "never embedded", Category: "general", Importance: 2, NoDiff: true})
	require.NoError(t, err)

	stats, err := m.EmbedStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stats.Unembedded)
	assert.Equal(t, 0, stats.Stats.Embedded)

	_, err = m.EmbedAll(ctx, 0)
	require.Error(t, err)
	var perr *PreconditionError
	assert.ErrorAs(t, err, &perr)
}

func TestRecallBasicFiltersByCategory(t *testing.T) {
	m := openTestMnemon(t)
	ctx := context.Background()

	_, err := m.Remember(ctx, RememberRequest{Content: "a fact about the system", Category: "fact", Importance: 3, NoDiff: true})
	require.NoError(t, err)
	_, err = m.Remember(ctx, RememberRequest{Content: "a preference about editors", Category: "preference", Importance: 3, NoDiff: true})
	require.NoError(t, err)

	results, err := m.RecallBasic(BasicRecallRequest{Category: "fact", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fact", results[0].Category)
}
