package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/output"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Token-based keyword search",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "max results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	results, err := m.Search(mnemon.SearchRequest{Query: strings.Join(args, " "), Limit: searchLimit})
	if err != nil {
		return err
	}
	return output.JSON(cmd.OutOrStdout(), results)
}
