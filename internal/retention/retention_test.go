package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeEffectiveImportanceMonotonicDecay(t *testing.T) {
	fresh := ComputeEffectiveImportance(3, 1, 0, 0)
	stale := ComputeEffectiveImportance(3, 1, 60, 0)
	assert.Greater(t, fresh, stale)
}

func TestComputeEffectiveImportanceEdgeCountCapped(t *testing.T) {
	at5 := ComputeEffectiveImportance(3, 1, 0, 5)
	at50 := ComputeEffectiveImportance(3, 1, 0, 50)
	assert.Equal(t, at5, at50)
}

func TestDaysSinceAccessPrefersLastAccessed(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	created := now.Add(-30 * 24 * time.Hour)
	lastAccessed := now.Add(-2 * 24 * time.Hour)
	assert.InDelta(t, 2.0, DaysSinceAccess(now, created, lastAccessed), 0.01)
	assert.InDelta(t, 30.0, DaysSinceAccess(now, created, time.Time{}), 0.01)
}

func TestSelectPruneVictimsRespectsImmunityAndBatchSize(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 15; i++ {
		candidates = append(candidates, Candidate{
			ID: string(rune('a' + i)), Importance: 2, AccessCount: 0,
			EffectiveImportance: float64(i),
		})
	}
	candidates = append(candidates, Candidate{ID: "immune1", Importance: 5, AccessCount: 0, EffectiveImportance: -100})
	candidates = append(candidates, Candidate{ID: "immune2", Importance: 1, AccessCount: 10, EffectiveImportance: -50})

	victims := SelectPruneVictims(candidates, PruneBatchSize)
	assert.Len(t, victims, PruneBatchSize)
	assert.NotContains(t, victims, "immune1")
	assert.NotContains(t, victims, "immune2")
	assert.Equal(t, "a", victims[0])
}

func TestFiveInsightsImportance2PruneTwo(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 5; i++ {
		candidates = append(candidates, Candidate{
			ID: string(rune('a' + i)), Importance: 2, AccessCount: 0,
			EffectiveImportance: float64(i),
		})
	}
	active := len(candidates)
	maxAllowed := 3
	excess := active - maxAllowed
	victims := SelectPruneVictims(candidates, excess)
	assert.Len(t, victims, 2)
	assert.Equal(t, []string{"a", "b"}, victims)
}

func TestImmuneInsightsNeverPrunedEvenWhenOverCap(t *testing.T) {
	candidates := []Candidate{
		{ID: "imp4", Importance: 4, EffectiveImportance: 0.01},
		{ID: "imp5", Importance: 5, EffectiveImportance: 0.01},
		{ID: "imp1", Importance: 1, AccessCount: 0, EffectiveImportance: 0.5},
	}
	victims := SelectPruneVictims(candidates, PruneBatchSize)
	assert.Equal(t, []string{"imp1"}, victims)
}

func TestSelectPruneVictimsCappedByExcessNotBatchSize(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 15; i++ {
		candidates = append(candidates, Candidate{
			ID: string(rune('a' + i)), Importance: 2, AccessCount: 0,
			EffectiveImportance: float64(i),
		})
	}
	victims := SelectPruneVictims(candidates, 2)
	assert.Equal(t, []string{"a", "b"}, victims)
}
