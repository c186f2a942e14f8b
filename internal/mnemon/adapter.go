package mnemon

import (
	"database/sql"

	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/store"
)

// conn is satisfied by both *sql.DB and *sql.Tx; storeAdapter binds a
// conn to internal/store's package-level query functions so the rest of
// this package can depend on the small edgegen/recall interfaces instead
// of internal/store directly.
type conn interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// storeAdapter implements edgegen.EngineStore and recall.Store over a
// single conn, letting the same value back a read-only recall and a
// transactional write without either package importing internal/store
// itself.
type storeAdapter struct {
	q conn
}

func (a storeAdapter) LatestInsightBySource(source, excludeID string) (*model.Insight, error) {
	return store.GetLatestInsightBySource(a.q, source, excludeID)
}

func (a storeAdapter) RecentInsightsInWindow(excludeID string, windowHours float64, limit int) ([]*model.Insight, error) {
	return store.GetRecentInsightsInWindow(a.q, excludeID, windowHours, limit)
}

func (a storeAdapter) RecentActiveInsights(excludeID string, limit int) ([]*model.Insight, error) {
	return store.GetRecentActiveInsights(a.q, excludeID, limit)
}

func (a storeAdapter) InsertEdge(e *model.Edge) error {
	return store.InsertEdge(a.q, e)
}

func (a storeAdapter) CountActiveInsights() (int, error) {
	return store.CountActiveInsights(a.q)
}

func (a storeAdapter) FindInsightsWithEntity(ent, excludeID string, limit int) ([]string, error) {
	return store.FindInsightsWithEntity(a.q, ent, excludeID, limit)
}

func (a storeAdapter) CountInsightsWithEntity(ent, excludeID string) (int, error) {
	return store.CountInsightsWithEntity(a.q, ent, excludeID)
}

func (a storeAdapter) GetAllActiveInsights() ([]*model.Insight, error) {
	return store.GetAllActiveInsights(a.q)
}

func (a storeAdapter) GetAllEmbeddings() ([]store.EmbeddedInsight, error) {
	return store.GetAllEmbeddings(a.q)
}

func (a storeAdapter) GetEdgesForNode(id string) ([]*model.Edge, error) {
	return store.GetEdgesForNode(a.q, id)
}

func (a storeAdapter) GetInsightByID(id string) (*model.Insight, error) {
	return store.GetInsightByID(a.q, id)
}

func (a storeAdapter) GetOutgoingEdgesByType(id, edgeType string) ([]*model.Edge, error) {
	return store.GetOutgoingEdgesByType(a.q, id, edgeType)
}
