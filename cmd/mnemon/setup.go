package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/storemgr"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set up the default memory store",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

// runSetup creates the data directory and default store if they don't
// already exist. The rich per-agent TUI installer (Claude/OpenClaw
// integration scaffolding) from the original is out of scope here;
// this only guarantees `mnemon` has somewhere to write on first run.
func runSetup(cmd *cobra.Command, args []string) error {
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	name := storemgr.ResolveStoreName(flagStore, dataDir)
	m, err := mnemon.Open(dataDir, name)
	if err != nil {
		return err
	}
	defer m.Close()

	if storemgr.ReadActive(dataDir) == storemgr.DefaultStoreName && name == storemgr.DefaultStoreName {
		if err := storemgr.WriteActive(dataDir, name); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Store %q ready at %s\n", name, dataDir)
	return nil
}
