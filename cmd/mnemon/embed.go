package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/output"
)

var (
	embedBackfill bool
	embedStatus   bool
)

var embedCmd = &cobra.Command{
	Use:   "embed [id]",
	Short: "Manage embeddings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEmbed,
}

func init() {
	embedCmd.Flags().BoolVar(&embedBackfill, "all", false, "backfill all insights")
	embedCmd.Flags().BoolVar(&embedStatus, "status", false, "show coverage stats")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	ctx := context.Background()

	if embedStatus {
		res, err := m.EmbedStatus(ctx)
		if err != nil {
			return err
		}
		coverage := "0%"
		if res.Stats.Total > 0 {
			coverage = strconv.Itoa(res.Stats.Embedded*100/res.Stats.Total) + "%"
		}
		return output.JSON(cmd.OutOrStdout(), map[string]any{
			"total_insights":   res.Stats.Total,
			"embedded":         res.Stats.Embedded,
			"coverage":         coverage,
			"ollama_available": res.Available,
			"model":            res.Model,
		})
	}

	if embedBackfill {
		res, err := m.EmbedAll(ctx, 1000)
		if err != nil {
			return err
		}
		if len(res.Embedded) == 0 && len(res.Skipped) == 0 {
			return output.JSON(cmd.OutOrStdout(), map[string]string{
				"status": "complete", "message": "all insights already have embeddings",
			})
		}
		return output.JSON(cmd.OutOrStdout(), map[string]any{
			"status": "backfill_complete", "succeeded": len(res.Embedded), "failed": len(res.Skipped),
		})
	}

	if len(args) == 1 {
		id := args[0]
		if err := m.EmbedOne(ctx, id); err != nil {
			return err
		}
		return output.JSON(cmd.OutOrStdout(), map[string]string{"status": "embedded", "id": id})
	}

	return errors.New("specify --all to backfill, --status to check coverage, or provide an insight ID")
}
