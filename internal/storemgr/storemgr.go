// Package storemgr resolves which named store a command operates
// against: the data directory, the set of store directories beneath it,
// and the small "active" pointer file that lets the CLI default to a
// store without requiring --store on every invocation.
package storemgr

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultStoreName is the store used when nothing else selects one.
const DefaultStoreName = "default"

var validStoreNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidStoreName reports whether name matches [a-zA-Z0-9][a-zA-Z0-9_-]*.
func ValidStoreName(name string) bool {
	return validStoreNameRe.MatchString(name)
}

// DefaultDataDir returns ~/.mnemon, the base directory every store lives
// under absent MNEMON_DATA_DIR.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".mnemon"), nil
}

// ResolveDataDir returns MNEMON_DATA_DIR if set, otherwise DefaultDataDir.
func ResolveDataDir() (string, error) {
	if dir := os.Getenv("MNEMON_DATA_DIR"); dir != "" {
		return dir, nil
	}
	return DefaultDataDir()
}

// StoreDir returns <baseDir>/data/<name>, the directory holding a named
// store's mnemon.db.
func StoreDir(baseDir, name string) string {
	return filepath.Join(baseDir, "data", name)
}

// DBPath returns the sqlite file path for a named store.
func DBPath(baseDir, name string) string {
	return filepath.Join(StoreDir(baseDir, name), "mnemon.db")
}

// ActiveFile returns <baseDir>/active, the file recording the current
// default store name.
func ActiveFile(baseDir string) string {
	return filepath.Join(baseDir, "active")
}

// ReadActive reads the active store name from <baseDir>/active, falling
// back to DefaultStoreName if the file is missing or empty.
func ReadActive(baseDir string) string {
	data, err := os.ReadFile(ActiveFile(baseDir))
	if err != nil {
		return DefaultStoreName
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return DefaultStoreName
	}
	return name
}

// WriteActive records name as the active store, creating baseDir if needed.
func WriteActive(baseDir, name string) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(ActiveFile(baseDir), []byte(name+"\n"), 0o644); err != nil {
		return fmt.Errorf("write active store: %w", err)
	}
	return nil
}

// ListStores returns the sorted names of every store directory under
// <baseDir>/data.
func ListStores(baseDir string) ([]string, error) {
	dataDir := filepath.Join(baseDir, "data")
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list stores: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// StoreExists reports whether a named store's directory exists.
func StoreExists(baseDir, name string) bool {
	info, err := os.Stat(StoreDir(baseDir, name))
	return err == nil && info.IsDir()
}

// ResolveStoreName picks the active store name: an explicit flag value
// wins, then MNEMON_STORE, then the baseDir's active-file pointer.
func ResolveStoreName(flagValue, baseDir string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("MNEMON_STORE"); env != "" {
		return env
	}
	return ReadActive(baseDir)
}
