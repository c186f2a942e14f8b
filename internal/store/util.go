package store

import (
	"database/sql"
	"time"

	"github.com/bissli/mnemon/internal/model"
)

// nowTimestamp returns the current instant formatted the canonical way
// every persisted timestamp column uses.
func nowTimestamp() string {
	return model.FormatTimestamp(time.Now())
}

// nullTime converts an optional time.Time pointer to a nullable string
// column value.
func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: model.FormatTimestamp(*t), Valid: true}
}

// parseNullTime converts a nullable timestamp column back into a
// time.Time pointer, or nil if the column was NULL/empty.
func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := model.ParseTimestamp(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
