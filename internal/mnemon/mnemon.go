// Package mnemon is the service facade wiring every other package into
// the write pipeline (validate, diff, insert, embed, generate edges,
// refresh retention, auto-prune, log) and the read pipeline (resolve
// store, intent-aware recall, bump access counts, log) that cmd/mnemon's
// verb surface calls into. It mirrors cli.py's command bodies, minus the
// click-specific argument parsing and JSON rendering, which live in
// cmd/mnemon.
package mnemon

import (
	"fmt"

	"github.com/bissli/mnemon/internal/embedclient"
	"github.com/bissli/mnemon/internal/storemgr"
	"github.com/bissli/mnemon/internal/store"
)

// maxContentBytes is the hard cap on a single insight's content, past
// which callers are told to chunk into multiple remember calls.
const maxContentBytes = 8000

const (
	maxTagLen    = 100
	maxTags      = 20
	maxEntityLen = 200
	maxEntities  = 50
)

// Mnemon is a single named store opened for reads, writes, or both,
// paired with an embedding client resolved from the environment.
type Mnemon struct {
	store *store.Store
	embed *embedclient.Client
}

// Open resolves storeName (via internal/storemgr) under dataDir and
// opens it read-write, running migrations if needed.
func Open(dataDir, storeName string) (*Mnemon, error) {
	path := storemgr.DBPath(dataDir, storeName)
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", storeName, err)
	}
	return &Mnemon{store: s, embed: embedclient.New()}, nil
}

// OpenReadOnly resolves storeName the same way but opens it read-only,
// for callers (like `--readonly`) that want to guarantee no mutation.
func OpenReadOnly(dataDir, storeName string) (*Mnemon, error) {
	path := storemgr.DBPath(dataDir, storeName)
	s, err := store.OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("open store %q read-only: %w", storeName, err)
	}
	return &Mnemon{store: s, embed: embedclient.New()}, nil
}

// Close releases the underlying store connection.
func (m *Mnemon) Close() error {
	return m.store.Close()
}

// Path returns the sqlite file path backing this Mnemon.
func (m *Mnemon) Path() string {
	return m.store.Path()
}
