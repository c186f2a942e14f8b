package mnemon

import (
	"time"

	"github.com/bissli/mnemon/internal/bfs"
	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/store"
)

// LinkRequest is the input to Link, a manually created edge between two
// existing insights (as distinct from the edges edgegen derives on write).
type LinkRequest struct {
	SourceID string
	TargetID string
	EdgeType string
	Weight   float64
	Metadata map[string]string
}

// Link validates both endpoints exist and the edge type/weight are in
// range, then inserts the edge in both directions (mnemon's graph reads
// are direction-agnostic, so every manual link is made symmetric) tagged
// with created_by=claude.
func (m *Mnemon) Link(req LinkRequest) (*model.Edge, error) {
	if !model.ValidEdgeTypes[req.EdgeType] {
		return nil, validationErrorf("invalid edge type %q; valid: temporal, semantic, causal, entity", req.EdgeType)
	}
	if req.Weight < 0 || req.Weight > 1 {
		return nil, validationErrorf("weight must be 0-1, got %g", req.Weight)
	}
	if req.SourceID == req.TargetID {
		return nil, validationErrorf("source and target must differ")
	}

	if ins, err := store.GetInsightByID(m.store.DB(), req.SourceID); err != nil || ins == nil {
		return nil, preconditionErrorf("source insight %q not found", req.SourceID)
	}
	if ins, err := store.GetInsightByID(m.store.DB(), req.TargetID); err != nil || ins == nil {
		return nil, preconditionErrorf("target insight %q not found", req.TargetID)
	}

	metadata := map[string]string{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["created_by"] = "claude"

	now := time.Now().UTC()
	forward := &model.Edge{
		SourceID: req.SourceID, TargetID: req.TargetID, EdgeType: req.EdgeType,
		Weight: req.Weight, Metadata: metadata, CreatedAt: now,
	}
	backward := &model.Edge{
		SourceID: req.TargetID, TargetID: req.SourceID, EdgeType: req.EdgeType,
		Weight: req.Weight, Metadata: metadata, CreatedAt: now,
	}
	if err := store.InsertEdge(m.store.DB(), forward); err != nil {
		return nil, err
	}
	if err := store.InsertEdge(m.store.DB(), backward); err != nil {
		return nil, err
	}
	if err := store.AppendOplog(m.store.DB(), "link", req.SourceID, req.SourceID+" <-> "+req.TargetID+" ("+req.EdgeType+")"); err != nil {
		return nil, err
	}
	return forward, nil
}

// GraphSnapshot returns every active insight and edge, the full-graph
// payload `viz` renders to DOT or HTML.
func (m *Mnemon) GraphSnapshot() ([]*model.Insight, []*model.Edge, error) {
	insights, err := store.GetAllActiveInsights(m.store.DB())
	if err != nil {
		return nil, nil, err
	}
	edges, err := store.GetAllEdges(m.store.DB())
	if err != nil {
		return nil, nil, err
	}
	return insights, edges, nil
}

// RelatedRequest is the input to Related.
type RelatedRequest struct {
	ID       string
	EdgeType string // "" means any edge type
	Depth    int
	Limit    int
}

// Related runs an unweighted BFS outward from ID over the full edge
// graph, filtered by edge type and bounded by depth/node count.
func (m *Mnemon) Related(req RelatedRequest) ([]bfs.Hit, error) {
	if ins, err := store.GetInsightByID(m.store.DB(), req.ID); err != nil || ins == nil {
		return nil, preconditionErrorf("insight %q not found", req.ID)
	}

	allInsights, err := store.GetAllActiveInsights(m.store.DB())
	if err != nil {
		return nil, err
	}
	allEdges, err := store.GetAllEdges(m.store.DB())
	if err != nil {
		return nil, err
	}

	hits := bfs.Run(allInsights, allEdges, req.ID, bfs.Options{
		MaxDepth: req.Depth, MaxNodes: req.Limit, EdgeFilter: req.EdgeType,
	})
	return hits, nil
}
