// Command mnemon is the CLI surface over the internal/mnemon facade: a
// memory daemon for LLM agents, storing, linking, and retrieving
// durable insights in a per-project SQLite store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/output"
	"github.com/bissli/mnemon/internal/storemgr"
)

var (
	flagDataDir  string
	flagStore    string
	flagReadonly bool
)

var rootCmd = &cobra.Command{
	Use:           "mnemon",
	Short:         "Memory daemon for LLM agents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "base data directory (env: MNEMON_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "named memory store")
	rootCmd.PersistentFlags().BoolVar(&flagReadonly, "readonly", false, "open database in read-only mode")

	rootCmd.AddCommand(rememberCmd, recallCmd, searchCmd, forgetCmd, linkCmd,
		relatedCmd, statusCmd, logCmd, gcCmd, embedCmd, vizCmd, storeCmd, setupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = output.Error(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// resolveDataDir returns --data-dir, MNEMON_DATA_DIR, or storemgr's default.
func resolveDataDir() (string, error) {
	if flagDataDir != "" {
		return flagDataDir, nil
	}
	if dir := os.Getenv("MNEMON_DATA_DIR"); dir != "" {
		return dir, nil
	}
	return storemgr.DefaultDataDir()
}

// openMnemon resolves the effective data dir/store name from global
// flags and opens it, honoring --readonly.
func openMnemon() (*mnemon.Mnemon, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	name := storemgr.ResolveStoreName(flagStore, dataDir)
	if flagReadonly {
		return mnemon.OpenReadOnly(dataDir, name)
	}
	return mnemon.Open(dataDir, name)
}
