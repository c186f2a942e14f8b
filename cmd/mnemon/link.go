package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/output"
)

var (
	linkEdgeType string
	linkWeight   float64
	linkMeta     string
)

var linkCmd = &cobra.Command{
	Use:   "link <source_id> <target_id>",
	Short: "Create a manual edge between two insights",
	Args:  cobra.ExactArgs(2),
	RunE:  runLink,
}

func init() {
	linkCmd.Flags().StringVar(&linkEdgeType, "type", "semantic", "edge type")
	linkCmd.Flags().Float64Var(&linkWeight, "weight", 0.5, "edge weight")
	linkCmd.Flags().StringVar(&linkMeta, "meta", "", "JSON metadata")
}

func runLink(cmd *cobra.Command, args []string) error {
	var metadata map[string]string
	if linkMeta != "" {
		if err := json.Unmarshal([]byte(linkMeta), &metadata); err != nil {
			return err
		}
	}

	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	edge, err := m.Link(mnemon.LinkRequest{
		SourceID: args[0], TargetID: args[1], EdgeType: linkEdgeType,
		Weight: linkWeight, Metadata: metadata,
	})
	if err != nil {
		return err
	}
	return output.JSON(cmd.OutOrStdout(), map[string]any{
		"status": "linked", "source_id": edge.SourceID, "target_id": edge.TargetID,
		"edge_type": edge.EdgeType, "weight": edge.Weight, "metadata": edge.Metadata,
	})
}
