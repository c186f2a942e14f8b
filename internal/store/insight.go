package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/vector"
)

// escapeLike escapes SQL LIKE metacharacters in a user-supplied substring
// so it matches literally under the '\' ESCAPE clause.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// InsertInsight inserts a new insight row. Callers are responsible for
// soft-deleting any insight it replaces before calling this (the write
// pipeline's Diff step decides that; Store only persists).
func InsertInsight(q querier, ins *model.Insight) error {
	tagsJSON, err := ins.TagsJSON()
	if err != nil {
		return err
	}
	entitiesJSON, err := ins.EntitiesJSON()
	if err != nil {
		return err
	}

	_, err = q.Exec(`
		INSERT INTO insights (id, content, category, importance, tags, entities,
			source, access_count, created_at, updated_at, last_accessed_at,
			effective_importance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ins.ID, ins.Content, ins.Category, ins.Importance, tagsJSON, entitiesJSON,
		ins.Source, ins.AccessCount, model.FormatTimestamp(ins.CreatedAt),
		model.FormatTimestamp(ins.UpdatedAt), model.FormatTimestamp(ins.LastAccessedAt),
		ins.EffectiveImportance)
	if err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

const insightColumns = `id, content, category, importance, tags, entities, source,
	access_count, created_at, updated_at, last_accessed_at, deleted_at,
	embedding, effective_importance`

func scanInsight(row interface{ Scan(...any) error }) (*model.Insight, error) {
	var (
		ins                          model.Insight
		tagsRaw, entitiesRaw         string
		createdAt, updatedAt         string
		lastAccessedAt, deletedAt    sql.NullString
		embedding                    []byte
	)

	if err := row.Scan(&ins.ID, &ins.Content, &ins.Category, &ins.Importance,
		&tagsRaw, &entitiesRaw, &ins.Source, &ins.AccessCount,
		&createdAt, &updatedAt, &lastAccessedAt, &deletedAt,
		&embedding, &ins.EffectiveImportance); err != nil {
		return nil, err
	}

	tags, err := model.ParseTags(tagsRaw)
	if err != nil {
		return nil, err
	}
	entities, err := model.ParseEntities(entitiesRaw)
	if err != nil {
		return nil, err
	}
	ins.Tags = tags
	ins.Entities = entities

	if ins.CreatedAt, err = model.ParseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if ins.UpdatedAt, err = model.ParseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	if lastAccessed, err := parseNullTime(lastAccessedAt); err != nil {
		return nil, err
	} else if lastAccessed != nil {
		ins.LastAccessedAt = *lastAccessed
	}
	if ins.DeletedAt, err = parseNullTime(deletedAt); err != nil {
		return nil, err
	}
	if len(embedding) > 0 {
		vec, err := vector.Deserialize(embedding)
		if err != nil {
			return nil, fmt.Errorf("deserialize embedding: %w", err)
		}
		ins.Embedding = vec
	}

	return &ins, nil
}

// GetInsightByID fetches an active (non-deleted) insight by id, or
// (nil, nil) if it doesn't exist or has been soft-deleted.
func GetInsightByID(q querier, id string) (*model.Insight, error) {
	row := q.QueryRow(`SELECT `+insightColumns+` FROM insights
		WHERE id = ? AND deleted_at IS NULL`, id)
	ins, err := scanInsight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get insight %s: %w", id, err)
	}
	return ins, nil
}

// GetInsightByIDIncludeDeleted fetches an insight by id regardless of its
// soft-delete state.
func GetInsightByIDIncludeDeleted(q querier, id string) (*model.Insight, error) {
	row := q.QueryRow(`SELECT `+insightColumns+` FROM insights WHERE id = ?`, id)
	ins, err := scanInsight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get insight %s (include deleted): %w", id, err)
	}
	return ins, nil
}

func queryInsights(q querier, query string, args ...any) ([]*model.Insight, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Insight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, rows.Err()
}

// GetAllActiveInsights returns every active insight ordered by created_at
// descending (newest first).
func GetAllActiveInsights(q querier) ([]*model.Insight, error) {
	out, err := queryInsights(q, `SELECT `+insightColumns+` FROM insights
		WHERE deleted_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("get all active insights: %w", err)
	}
	return out, nil
}

// QueryFilters narrows QueryInsights' result set. Zero-valued fields are
// unconstrained.
type QueryFilters struct {
	Keyword    string // substring match against content, case-insensitive
	Category   string
	Source     string
	Importance int // exact match when non-zero
	Limit      int
}

// QueryInsights returns active insights matching filters, ordered by
// importance descending then created_at descending.
func QueryInsights(q querier, f QueryFilters) ([]*model.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM insights WHERE deleted_at IS NULL`
	var args []any

	if f.Keyword != "" {
		query += ` AND content LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(f.Keyword)+"%")
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Source != "" {
		query += ` AND source = ?`
		args = append(args, f.Source)
	}
	if f.Importance != 0 {
		query += ` AND importance = ?`
		args = append(args, f.Importance)
	}
	query += ` ORDER BY importance DESC, created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	out, err := queryInsights(q, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	return out, nil
}

// SoftDeleteInsight marks an insight as deleted and cascades deletion of
// every edge touching it. It returns an error if the insight is missing
// or already deleted.
func SoftDeleteInsight(q querier, id string) error {
	res, err := q.Exec(`UPDATE insights SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		nowTimestamp(), id)
	if err != nil {
		return fmt.Errorf("soft delete insight %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("soft delete insight %s: not found or already deleted", id)
	}
	return DeleteEdgesByNode(q, id)
}

// UpdateEntities overwrites an insight's entities list.
func UpdateEntities(q querier, id string, entities []string) error {
	ins := &model.Insight{Entities: entities}
	raw, err := ins.EntitiesJSON()
	if err != nil {
		return err
	}
	_, err = q.Exec(`UPDATE insights SET entities = ?, updated_at = ? WHERE id = ?`,
		raw, nowTimestamp(), id)
	if err != nil {
		return fmt.Errorf("update entities for %s: %w", id, err)
	}
	return nil
}

// IncrementAccessCount bumps access_count by one and refreshes
// last_accessed_at.
func IncrementAccessCount(q querier, id string) error {
	_, err := q.Exec(`UPDATE insights SET access_count = access_count + 1,
		last_accessed_at = ? WHERE id = ? AND deleted_at IS NULL`, nowTimestamp(), id)
	if err != nil {
		return fmt.Errorf("increment access count for %s: %w", id, err)
	}
	return nil
}

// BoostRetention adds 3 to access_count and refreshes last_accessed_at,
// the explicit "keep this" signal exposed to callers independent of the
// implicit bump IncrementAccessCount applies on every read.
func BoostRetention(q querier, id string) error {
	_, err := q.Exec(`UPDATE insights SET access_count = access_count + 3,
		last_accessed_at = ? WHERE id = ? AND deleted_at IS NULL`, nowTimestamp(), id)
	if err != nil {
		return fmt.Errorf("boost retention for %s: %w", id, err)
	}
	return nil
}

// RefreshEffectiveImportance recomputes and persists a single insight's
// effective importance.
func RefreshEffectiveImportance(q querier, id string, ei float64) error {
	_, err := q.Exec(`UPDATE insights SET effective_importance = ? WHERE id = ?`, ei, id)
	if err != nil {
		return fmt.Errorf("refresh effective importance for %s: %w", id, err)
	}
	return nil
}

// CountActiveInsights returns the number of non-deleted insights.
func CountActiveInsights(q querier) (int, error) {
	var n int
	if err := q.QueryRow(`SELECT COUNT(*) FROM insights WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active insights: %w", err)
	}
	return n, nil
}

// GetLatestInsightBySource returns the most recently created active
// insight for a source, excluding excludeID, or nil if there is none.
func GetLatestInsightBySource(q querier, source, excludeID string) (*model.Insight, error) {
	row := q.QueryRow(`SELECT `+insightColumns+` FROM insights
		WHERE source = ? AND id != ? AND deleted_at IS NULL
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, source, excludeID)
	ins, err := scanInsight(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest insight by source %s: %w", source, err)
	}
	return ins, nil
}

// GetRecentInsightsInWindow returns active insights (excluding excludeID)
// created within windowHours of now, newest first, capped at limit.
func GetRecentInsightsInWindow(q querier, excludeID string, windowHours float64, limit int) ([]*model.Insight, error) {
	cutoff := model.FormatTimestamp(time.Now().Add(-time.Duration(windowHours * float64(time.Hour))))
	out, err := queryInsights(q, `SELECT `+insightColumns+` FROM insights
		WHERE id != ? AND deleted_at IS NULL AND created_at >= ?
		ORDER BY created_at DESC LIMIT ?`, excludeID, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent insights in window: %w", err)
	}
	return out, nil
}

// EmbeddedInsight pairs an insight id with its deserialized embedding.
type EmbeddedInsight struct {
	ID      string
	Content string
	Vector  []float64
}

// GetAllEmbeddings returns every active insight that carries a stored
// embedding, deserialized, for building the in-memory embed cache the
// semantic edge generator and recall pipeline share.
func GetAllEmbeddings(q querier) ([]EmbeddedInsight, error) {
	rows, err := q.Query(`SELECT id, content, embedding FROM insights
		WHERE deleted_at IS NULL AND embedding IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("get all embeddings: %w", err)
	}
	defer rows.Close()

	var out []EmbeddedInsight
	for rows.Next() {
		var id, content string
		var blob []byte
		if err := rows.Scan(&id, &content, &blob); err != nil {
			return nil, err
		}
		vec, err := vector.Deserialize(blob)
		if err != nil {
			continue // a corrupt blob is skipped, not fatal to the whole cache
		}
		out = append(out, EmbeddedInsight{ID: id, Content: content, Vector: vec})
	}
	return out, rows.Err()
}

// GetRecentActiveInsights returns the N most recently created active
// insights, excluding excludeID.
func GetRecentActiveInsights(q querier, excludeID string, limit int) ([]*model.Insight, error) {
	out, err := queryInsights(q, `SELECT `+insightColumns+` FROM insights
		WHERE id != ? AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT ?`, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent active insights: %w", err)
	}
	return out, nil
}
