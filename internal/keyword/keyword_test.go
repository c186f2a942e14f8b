package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bissli/mnemon/internal/model"
)

func TestTokenizeDropsStopwords(t *testing.T) {
	toks := Tokenize("The Cat sat on the Mat")
	assert.True(t, toks["cat"])
	assert.True(t, toks["sat"])
	assert.True(t, toks["mat"])
	assert.False(t, toks["the"])
	assert.False(t, toks["on"])
}

func TestContentSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, ContentSimilarity("", "anything"))
	assert.Equal(t, 0.0, ContentSimilarity("hello world", ""))
	assert.InDelta(t, 1.0, ContentSimilarity("postgres database", "we use postgres database for everything now"), 1e-9)
	assert.InDelta(t, ContentSimilarity("a b", "b a"), ContentSimilarity("b a", "a b"), 1e-9)
}

func TestKeywordSearchRanksByScoreThenImportance(t *testing.T) {
	insights := []*model.Insight{
		{ID: "1", Content: "we use postgres for storage", Importance: 2},
		{ID: "2", Content: "postgres storage migration plan", Importance: 5},
		{ID: "3", Content: "completely unrelated content here", Importance: 5},
	}
	cache := map[string]map[string]bool{}
	results := KeywordSearch(insights, "postgres storage", 5, cache)
	if assert.Len(t, results, 2) {
		assert.Equal(t, "2", results[0].Insight.ID)
	}
	assert.Contains(t, cache, "3")
}

func TestKeywordSearchEmptyQuery(t *testing.T) {
	insights := []*model.Insight{{ID: "1", Content: "the is a"}}
	assert.Empty(t, KeywordSearch(insights, "the is a", 5, nil))
}
