package main

import (
	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/output"
)

var (
	relatedEdge  string
	relatedDepth int
)

var relatedCmd = &cobra.Command{
	Use:   "related <id>",
	Short: "Find connected insights via graph traversal",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

func init() {
	relatedCmd.Flags().StringVar(&relatedEdge, "edge", "", "filter by edge type")
	relatedCmd.Flags().IntVar(&relatedDepth, "depth", 2, "max traversal depth")
}

func runRelated(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	hits, err := m.Related(mnemon.RelatedRequest{ID: args[0], EdgeType: relatedEdge, Depth: relatedDepth})
	if err != nil {
		return err
	}

	out := make([]map[string]any, 0, len(hits))
	for _, h := range hits {
		entry := map[string]any{
			"id": h.Insight.ID, "content": h.Insight.Content,
			"category": h.Insight.Category, "importance": h.Insight.Importance,
			"depth": h.Hop,
		}
		if h.ViaEdge != "" {
			entry["via_edge_type"] = h.ViaEdge
		}
		out = append(out, entry)
	}
	return output.JSON(cmd.OutOrStdout(), out)
}
