package main

import (
	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database statistics",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	res, err := m.Status()
	if err != nil {
		return err
	}
	return output.JSON(cmd.OutOrStdout(), map[string]any{
		"total_insights": res.Stats.TotalInsights,
		"total_edges":    res.Stats.TotalEdges,
		"by_category":    res.Stats.ByCategory,
		"by_importance":  res.Stats.ByImportance,
		"oplog_entries":  res.Stats.OplogEntries,
		"embedded":       res.Stats.EmbeddedCount,
		"unembedded":     res.Stats.UnembeddedCount,
		"db_path":        res.Path,
		"db_size_bytes":  res.SizeBytes,
	})
}
