package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bissli/mnemon/internal/model"
)

func TestClassifySuggestion(t *testing.T) {
	assert.Equal(t, Add, Classify(0.2, "a", "b"))
	assert.Equal(t, Conflict, Classify(0.6, "we no longer use redis", "we use redis"))
	assert.Equal(t, Duplicate, Classify(0.95, "a", "b"))
	assert.Equal(t, Update, Classify(0.7, "a", "b"))
}

func TestDiffIdenticalContentIsDuplicate(t *testing.T) {
	insights := []*model.Insight{
		{ID: "1", Content: "we use PostgreSQL for the primary datastore"},
	}
	r := Diff(insights, "we use PostgreSQL for the primary datastore", 5, nil, nil)
	assert.Equal(t, Duplicate, r.Suggestion)
}

func TestDiffNegationIsConflict(t *testing.T) {
	insights := []*model.Insight{
		{ID: "1", Content: "the service uses PostgreSQL for storage"},
	}
	r := Diff(insights, "the service no longer uses PostgreSQL for storage", 5, nil, nil)
	assert.Equal(t, Conflict, r.Suggestion)
}

func TestDiffUnrelatedIsAdd(t *testing.T) {
	insights := []*model.Insight{
		{ID: "1", Content: "completely different topic about gardening"},
	}
	r := Diff(insights, "we use PostgreSQL for storage", 5, nil, nil)
	assert.Equal(t, Add, r.Suggestion)
}
