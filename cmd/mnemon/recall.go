package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/output"
)

var (
	recallCat    string
	recallLimit  int
	recallSource string
	recallBasic  bool
	recallIntent string
)

var recallCmd = &cobra.Command{
	Use:   "recall <keyword...>",
	Short: "Retrieve insights by keyword",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecall,
}

func init() {
	recallCmd.Flags().StringVar(&recallCat, "cat", "", "filter by category")
	recallCmd.Flags().IntVar(&recallLimit, "limit", 10, "max results")
	recallCmd.Flags().StringVar(&recallSource, "source", "", "filter by source")
	recallCmd.Flags().BoolVar(&recallBasic, "basic", false, "simple SQL LIKE matching")
	recallCmd.Flags().StringVar(&recallIntent, "intent", "", "override intent")
}

func runRecall(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	query := strings.Join(args, " ")

	if recallBasic {
		results, err := m.RecallBasic(mnemon.BasicRecallRequest{
			Keyword: query, Category: recallCat, Source: recallSource, Limit: recallLimit,
		})
		if err != nil {
			return err
		}
		return output.JSON(cmd.OutOrStdout(), results)
	}

	out, err := m.Recall(context.Background(), mnemon.RecallRequest{
		Query: query, Limit: recallLimit, Intent: recallIntent,
	})
	if err != nil {
		return err
	}
	return output.JSON(cmd.OutOrStdout(), out)
}
