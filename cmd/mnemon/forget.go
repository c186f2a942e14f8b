package main

import (
	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/output"
)

var forgetCmd = &cobra.Command{
	Use:   "forget <id>",
	Short: "Soft-delete an insight",
	Args:  cobra.ExactArgs(1),
	RunE:  runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	id := args[0]
	if err := m.Forget(id); err != nil {
		return err
	}
	return output.JSON(cmd.OutOrStdout(), map[string]string{
		"id": id, "status": "deleted", "message": "Insight soft-deleted successfully",
	})
}
