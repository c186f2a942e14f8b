package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/mnemon"
	"github.com/bissli/mnemon/internal/storemgr"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage named memory stores",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stores",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreCreate,
}

var storeSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Set the active store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreSet,
}

var storeRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreRemove,
}

func init() {
	storeCmd.AddCommand(storeListCmd, storeCreateCmd, storeSetCmd, storeRemoveCmd)
}

func runStoreList(cmd *cobra.Command, args []string) error {
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	stores, err := storemgr.ListStores(dataDir)
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "  (no stores yet — run 'mnemon store create <name>' or any command to create default)")
		return nil
	}
	active := storemgr.ReadActive(dataDir)
	for _, name := range stores {
		prefix := "  "
		if name == active {
			prefix = "* "
		}
		fmt.Fprintln(cmd.OutOrStdout(), prefix+name)
	}
	return nil
}

func runStoreCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	if !storemgr.ValidStoreName(name) {
		return fmt.Errorf("invalid store name %q", name)
	}
	if storemgr.StoreExists(dataDir, name) {
		return fmt.Errorf("store %q already exists", name)
	}
	m, err := mnemon.Open(dataDir, name)
	if err != nil {
		return err
	}
	m.Close()
	fmt.Fprintf(cmd.OutOrStdout(), "Created store %q\n", name)
	return nil
}

func runStoreSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	if !storemgr.StoreExists(dataDir, name) {
		return fmt.Errorf("store %q does not exist (use 'mnemon store create %s' first)", name, name)
	}
	if err := storemgr.WriteActive(dataDir, name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Active store set to %q\n", name)
	return nil
}

func runStoreRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	if !storemgr.StoreExists(dataDir, name) {
		return fmt.Errorf("store %q does not exist (use 'mnemon store create %s' first)", name, name)
	}
	if name == storemgr.ReadActive(dataDir) {
		return fmt.Errorf("cannot remove the active store %q (switch first with 'mnemon store set <other>')", name)
	}
	if err := os.RemoveAll(storemgr.StoreDir(dataDir, name)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed store %q\n", name)
	return nil
}
