package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCamelCaseAndAcronym(t *testing.T) {
	ents := Extract("We deployed DataPipeline using AWS and the API config.yaml")
	assert.Contains(t, ents, "DataPipeline")
	assert.Contains(t, ents, "AWS")
	assert.Contains(t, ents, "API")
	assert.Contains(t, ents, "config.yaml")
}

func TestExtractSkipsAcronymStopwords(t *testing.T) {
	ents := Extract("AND THE ARE words that should never be entities")
	assert.NotContains(t, ents, "AND")
	assert.NotContains(t, ents, "THE")
	assert.NotContains(t, ents, "ARE")
}

func TestExtractURLAndMention(t *testing.T) {
	ents := Extract("see https://example.com/docs and ping @someuser about it")
	assert.Contains(t, ents, "https://example.com/docs")
	assert.Contains(t, ents, "someuser")
}

func TestExtractTechDictionary(t *testing.T) {
	ents := Extract("we switched from MySQL to PostgreSQL for this service")
	assert.Contains(t, ents, "MySQL")
	assert.Contains(t, ents, "PostgreSQL")
}

func TestMergePreservesProvidedFirst(t *testing.T) {
	merged := Merge([]string{"X", "Y"}, []string{"Y", "Z"})
	assert.Equal(t, []string{"X", "Y", "Z"}, merged)
}

func TestIDFWeight(t *testing.T) {
	assert.Equal(t, 0.0, IDFWeight(5, 5))
	assert.Equal(t, 0.0, IDFWeight(3, 1))
	assert.Equal(t, 1.0, IDFWeight(0, 10))
	assert.Greater(t, IDFWeight(1, 10), 0.09)
	assert.Greater(t, IDFWeight(1, 10), IDFWeight(5, 10))
}
