package main

import (
	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/model"
	"github.com/bissli/mnemon/internal/output"
	"github.com/bissli/mnemon/internal/retention"
)

var (
	gcThreshold float64
	gcLimit     int
	gcKeep      string
)

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Garbage collection / retention lifecycle",
	Args:  cobra.NoArgs,
	RunE:  runGC,
}

func init() {
	gcCmd.Flags().Float64Var(&gcThreshold, "threshold", mnemon.DefaultGCThreshold, "EI threshold")
	gcCmd.Flags().IntVar(&gcLimit, "limit", 20, "max candidates")
	gcCmd.Flags().StringVar(&gcKeep, "keep", "", "insight ID to keep")
}

func runGC(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	res, err := m.GC(gcKeep, gcThreshold, gcLimit)
	if err != nil {
		return err
	}

	if res.Boosted != nil {
		ins := res.Boosted
		return output.JSON(cmd.OutOrStdout(), map[string]any{
			"status": "retained", "id": ins.ID, "content": ins.Content,
			"new_access": ins.AccessCount, "effective_importance": ins.EffectiveImportance,
			"immune": model.IsImmune(ins.Importance, ins.AccessCount),
		})
	}

	candidates := make([]map[string]any, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		candidates = append(candidates, map[string]any{
			"id": c.Insight.ID, "content": c.Insight.Content, "category": c.Insight.Category,
			"importance": c.Insight.Importance, "access_count": c.Insight.AccessCount,
			"effective_importance": c.EffectiveImportance, "days_since_access": c.DaysSinceAccess,
			"edge_count": c.EdgeCount, "immune": c.Immune,
		})
	}
	return output.JSON(cmd.OutOrStdout(), map[string]any{
		"total_insights":   res.TotalAdmissibleInsights,
		"threshold":        gcThreshold,
		"candidates_found": len(res.Candidates),
		"candidates":       candidates,
		"max_insights":     retention.MaxInsights,
		"actions": map[string]string{
			"purge": "mnemon forget <id>",
			"keep":  "mnemon gc --keep <id>",
		},
	})
}
