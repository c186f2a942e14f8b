package bfs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bissli/mnemon/internal/model"
)

func TestRunRespectsDepthAndFilter(t *testing.T) {
	insights := []*model.Insight{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
	}
	edges := []*model.Edge{
		{SourceID: "a", TargetID: "b", EdgeType: "causal"},
		{SourceID: "b", TargetID: "c", EdgeType: "causal"},
		{SourceID: "a", TargetID: "d", EdgeType: "temporal"},
	}

	hits := Run(insights, edges, "a", Options{MaxDepth: 2, EdgeFilter: "causal"})
	var ids []string
	for _, h := range hits {
		ids = append(ids, h.Insight.ID)
	}
	assert.ElementsMatch(t, []string{"b", "c"}, ids)
	assert.NotContains(t, ids, "d")
}

func TestRunRespectsMaxNodes(t *testing.T) {
	insights := []*model.Insight{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []*model.Edge{
		{SourceID: "a", TargetID: "b", EdgeType: "entity"},
		{SourceID: "a", TargetID: "c", EdgeType: "entity"},
	}
	hits := Run(insights, edges, "a", Options{MaxDepth: 1, MaxNodes: 1})
	assert.Len(t, hits, 1)
}
