package store

import (
	"fmt"

	"github.com/bissli/mnemon/internal/model"
)

const edgeColumns = `source_id, target_id, edge_type, weight, metadata, created_at`

func scanEdge(row interface{ Scan(...any) error }) (*model.Edge, error) {
	var (
		e         model.Edge
		metaRaw   string
		createdAt string
	)
	if err := row.Scan(&e.SourceID, &e.TargetID, &e.EdgeType, &e.Weight, &metaRaw, &createdAt); err != nil {
		return nil, err
	}
	meta, err := model.ParseMetadata(metaRaw)
	if err != nil {
		return nil, err
	}
	e.Metadata = meta
	if e.CreatedAt, err = model.ParseTimestamp(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func queryEdges(q querier, query string, args ...any) ([]*model.Edge, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertEdge inserts or replaces an edge. The primary key is
// (source_id, target_id, edge_type), so re-generating an edge (e.g. a
// proximity link recomputed on a later insert) overwrites the previous
// weight/metadata rather than erroring.
func InsertEdge(q querier, e *model.Edge) error {
	metaJSON, err := e.MetadataJSON()
	if err != nil {
		return err
	}
	_, err = q.Exec(`
		INSERT OR REPLACE INTO edges (source_id, target_id, edge_type, weight, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.SourceID, e.TargetID, e.EdgeType, e.Weight, metaJSON, model.FormatTimestamp(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert edge %s->%s (%s): %w", e.SourceID, e.TargetID, e.EdgeType, err)
	}
	return nil
}

// GetEdgesForNode returns every edge touching id, in either direction.
func GetEdgesForNode(q querier, id string) ([]*model.Edge, error) {
	out, err := queryEdges(q, `SELECT `+edgeColumns+` FROM edges
		WHERE source_id = ? OR target_id = ?`, id, id)
	if err != nil {
		return nil, fmt.Errorf("get edges for node %s: %w", id, err)
	}
	return out, nil
}

// GetEdgesForNodeByType returns every edge touching id (either direction)
// of the given edge type.
func GetEdgesForNodeByType(q querier, id, edgeType string) ([]*model.Edge, error) {
	out, err := queryEdges(q, `SELECT `+edgeColumns+` FROM edges
		WHERE (source_id = ? OR target_id = ?) AND edge_type = ?`, id, id, edgeType)
	if err != nil {
		return nil, fmt.Errorf("get edges for node %s by type %s: %w", id, edgeType, err)
	}
	return out, nil
}

// GetOutgoingEdgesByType returns edges originating at id of the given
// edge type, the direction recall's causal topological sort walks.
func GetOutgoingEdgesByType(q querier, id, edgeType string) ([]*model.Edge, error) {
	out, err := queryEdges(q, `SELECT `+edgeColumns+` FROM edges
		WHERE source_id = ? AND edge_type = ?`, id, edgeType)
	if err != nil {
		return nil, fmt.Errorf("get outgoing edges for node %s by type %s: %w", id, edgeType, err)
	}
	return out, nil
}

// GetAllEdges returns every edge in the store.
func GetAllEdges(q querier) ([]*model.Edge, error) {
	out, err := queryEdges(q, `SELECT `+edgeColumns+` FROM edges`)
	if err != nil {
		return nil, fmt.Errorf("get all edges: %w", err)
	}
	return out, nil
}

// DeleteEdgesByNode removes every edge touching id. Called by
// SoftDeleteInsight to cascade the soft delete into the graph (the
// insights row itself is retained with deleted_at set, but its edges are
// hard-deleted since a tombstoned insight should not keep appearing as a
// traversal hop).
func DeleteEdgesByNode(q querier, id string) error {
	_, err := q.Exec(`DELETE FROM edges WHERE source_id = ? OR target_id = ?`, id, id)
	if err != nil {
		return fmt.Errorf("delete edges for node %s: %w", id, err)
	}
	return nil
}

// CountEdgesForNode returns the number of edges touching id, used by the
// retention formula's edge_count term.
func CountEdgesForNode(q querier, id string) (int, error) {
	var n int
	err := q.QueryRow(`SELECT COUNT(*) FROM edges WHERE source_id = ? OR target_id = ?`, id, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count edges for node %s: %w", id, err)
	}
	return n, nil
}

// FindInsightsWithEntity returns up to limit active insight ids (newest
// first, excludeID excluded) whose entities list contains entity.
func FindInsightsWithEntity(q querier, entity, excludeID string, limit int) ([]string, error) {
	rows, err := q.Query(`
		SELECT DISTINCT i.id FROM insights i, json_each(i.entities) je
		WHERE i.deleted_at IS NULL AND i.id != ? AND je.value = ?
		ORDER BY i.created_at DESC LIMIT ?
	`, excludeID, entity, limit)
	if err != nil {
		return nil, fmt.Errorf("find insights with entity %q: %w", entity, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CountInsightsWithEntity returns the number of distinct active insights
// (excluding excludeID) whose entities list contains entity, the doc_freq
// term of the IDF weighting formula.
func CountInsightsWithEntity(q querier, entity, excludeID string) (int, error) {
	var n int
	err := q.QueryRow(`
		SELECT COUNT(DISTINCT i.id) FROM insights i, json_each(i.entities) je
		WHERE i.deleted_at IS NULL AND i.id != ? AND je.value = ?
	`, excludeID, entity).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count insights with entity %q: %w", entity, err)
	}
	return n, nil
}
