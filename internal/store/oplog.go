package store

import "fmt"

// MaxOplogEntries bounds the operation log's retained size; AppendOplog
// trims the oldest rows past this count on every append.
const MaxOplogEntries = 5000

// OplogEntry is a single recorded operation: a remembered insight, an
// edge generated for it, a forget, a prune, or a store-level event.
type OplogEntry struct {
	ID        int64
	Kind      string
	InsightID string
	Detail    string
	CreatedAt string
}

// AppendOplog records a new entry and trims the log to MaxOplogEntries.
func AppendOplog(q querier, kind, insightID, detail string) error {
	_, err := q.Exec(`INSERT INTO oplog (kind, insight_id, detail, created_at) VALUES (?, ?, ?, ?)`,
		kind, insightID, detail, nowTimestamp())
	if err != nil {
		return fmt.Errorf("append oplog: %w", err)
	}
	_, err = q.Exec(`
		DELETE FROM oplog WHERE id IN (
			SELECT id FROM oplog ORDER BY id DESC LIMIT -1 OFFSET ?
		)
	`, MaxOplogEntries)
	if err != nil {
		return fmt.Errorf("trim oplog: %w", err)
	}
	return nil
}

// RecentOplog returns the newest limit oplog entries, newest first.
func RecentOplog(q querier, limit int) ([]OplogEntry, error) {
	rows, err := q.Query(`SELECT id, kind, insight_id, detail, created_at
		FROM oplog ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent oplog: %w", err)
	}
	defer rows.Close()

	var out []OplogEntry
	for rows.Next() {
		var e OplogEntry
		var insightID *string
		if err := rows.Scan(&e.ID, &e.Kind, &insightID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if insightID != nil {
			e.InsightID = *insightID
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
