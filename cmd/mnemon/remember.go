package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/output"
)

var (
	rememberCat      string
	rememberImp      int
	rememberTags     string
	rememberSource   string
	rememberEntities string
	rememberNoDiff   bool
)

var rememberCmd = &cobra.Command{
	Use:   "remember <content...>",
	Short: "Store a new insight",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemember,
}

func init() {
	rememberCmd.Flags().StringVar(&rememberCat, "cat", "general", "category")
	rememberCmd.Flags().IntVar(&rememberImp, "imp", 3, "importance (1-5)")
	rememberCmd.Flags().StringVar(&rememberTags, "tags", "", "comma-separated tags")
	rememberCmd.Flags().StringVar(&rememberSource, "source", "user", "source")
	rememberCmd.Flags().StringVar(&rememberEntities, "entities", "", "comma-separated entities")
	rememberCmd.Flags().BoolVar(&rememberNoDiff, "no-diff", false, "skip duplicate detection")
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runRemember(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	res, err := m.Remember(context.Background(), mnemon.RememberRequest{
		Content:    strings.Join(args, " "),
		Category:   rememberCat,
		Importance: rememberImp,
		Tags:       splitCSV(rememberTags),
		Entities:   splitCSV(rememberEntities),
		Source:     rememberSource,
		NoDiff:     rememberNoDiff,
	})
	if err != nil {
		return err
	}
	return output.JSON(cmd.OutOrStdout(), res)
}
