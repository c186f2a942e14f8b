package store

// schema defines the insights/edges/oplog tables and their indexes. It is
// applied with CREATE TABLE IF NOT EXISTS so opening an existing database
// is idempotent; self-healing migrations for columns/constraints added
// after a store's initial creation live in migrate.go.
const schema = `
CREATE TABLE IF NOT EXISTS insights (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    category TEXT NOT NULL,
    importance INTEGER NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    entities TEXT NOT NULL DEFAULT '[]',
    source TEXT NOT NULL DEFAULT '',
    access_count INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    deleted_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_insights_source ON insights(source);
CREATE INDEX IF NOT EXISTS idx_insights_category ON insights(category);
CREATE INDEX IF NOT EXISTS idx_insights_deleted ON insights(deleted_at);
CREATE INDEX IF NOT EXISTS idx_insights_created ON insights(created_at);

CREATE TABLE IF NOT EXISTS edges (
    source_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    edge_type TEXT NOT NULL CHECK (edge_type IN ('temporal', 'semantic', 'causal', 'entity')),
    weight REAL NOT NULL DEFAULT 1.0,
    metadata TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL,
    PRIMARY KEY (source_id, target_id, edge_type),
    FOREIGN KEY (source_id) REFERENCES insights(id) ON DELETE CASCADE,
    FOREIGN KEY (target_id) REFERENCES insights(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(edge_type);

CREATE TABLE IF NOT EXISTS oplog (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    insight_id TEXT,
    detail TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
`

// postOpenColumns and postOpenIndexes run after schema creation on every open, as
// self-healing migration steps: adding columns introduced after a store's
// initial creation, and indexes that support retention/edge-lookup
// queries. Each is independently idempotent.
var postOpenColumns = []struct {
	table, column, ddl string
}{
	{"insights", "last_accessed_at", "ALTER TABLE insights ADD COLUMN last_accessed_at TEXT"},
	{"insights", "embedding", "ALTER TABLE insights ADD COLUMN embedding BLOB"},
	{"insights", "effective_importance", "ALTER TABLE insights ADD COLUMN effective_importance REAL NOT NULL DEFAULT 0"},
}

var postOpenIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_insights_effective_imp ON insights(effective_importance)",
	"CREATE INDEX IF NOT EXISTS idx_prune_candidates ON insights(deleted_at, importance, access_count, effective_importance)",
}
