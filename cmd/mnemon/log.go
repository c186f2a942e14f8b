package main

import (
	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/output"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show operation log",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVar(&logLimit, "limit", 20, "max entries")
}

func runLog(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	entries, err := m.Log(logLimit)
	if err != nil {
		return err
	}
	return output.JSON(cmd.OutOrStdout(), entries)
}
