// Package bfs implements breadth-first traversal over the insight graph,
// used by causal/semantic candidate surfacing (2-hop lookups) independent
// of the recall pipeline's own weighted beam search.
package bfs

import (
	"github.com/bissli/mnemon/internal/model"
)

// Options controls a BFS traversal.
type Options struct {
	MaxDepth   int
	MaxNodes   int
	EdgeFilter string // empty means "any edge type"
}

// Hit is one node reached during traversal.
type Hit struct {
	Insight *model.Insight
	Hop     int
	ViaEdge string
}

// Run performs a breadth-first traversal from startID over the full graph
// described by insights and edges, respecting opts.MaxDepth/MaxNodes/EdgeFilter.
func Run(insights []*model.Insight, edges []*model.Edge, startID string, opts Options) []Hit {
	if len(insights) == 0 {
		return nil
	}

	insightByID := make(map[string]*model.Insight, len(insights))
	for _, ins := range insights {
		insightByID[ins.ID] = ins
	}

	adj := make(map[string][]*model.Edge)
	for _, e := range edges {
		adj[e.SourceID] = append(adj[e.SourceID], e)
		if e.SourceID != e.TargetID {
			adj[e.TargetID] = append(adj[e.TargetID], e)
		}
	}

	type queued struct {
		id  string
		hop int
	}

	visited := map[string]bool{startID: true}
	queue := []queued{{startID, 0}}
	var result []Hit

	for len(queue) > 0 {
		if opts.MaxNodes > 0 && len(result) >= opts.MaxNodes {
			break
		}

		cur := queue[0]
		queue = queue[1:]

		if cur.hop >= opts.MaxDepth {
			continue
		}

		for _, e := range adj[cur.id] {
			if opts.EdgeFilter != "" && e.EdgeType != opts.EdgeFilter {
				continue
			}

			neighborID := e.TargetID
			if neighborID == cur.id {
				neighborID = e.SourceID
			}

			if visited[neighborID] {
				continue
			}
			visited[neighborID] = true

			ins, ok := insightByID[neighborID]
			if !ok {
				continue
			}

			result = append(result, Hit{Insight: ins, Hop: cur.hop + 1, ViaEdge: e.EdgeType})
			if opts.MaxNodes > 0 && len(result) >= opts.MaxNodes {
				break
			}

			queue = append(queue, queued{neighborID, cur.hop + 1})
		}
	}

	return result
}
