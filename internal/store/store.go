// Package store provides SQLite-backed persistence for insights, edges,
// and the operation log: the durable substrate the rest of Mnemon's
// components read and write through. It follows the teacher's
// mutex-guarded *sql.DB pattern, generalized from a single WASM-embedded
// connection to a file-backed store with WAL, foreign-key cascades, and
// the self-healing migrations spec'd in SPEC_FULL.md §4.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

// Store is the SQLite-backed data store for a single named memory store.
// Writes serialize through a single in-progress transaction per Store
// (guarded by mu). The pool holds one connection, so a read through DB()
// waits while a transaction holds it; readers in other processes stay
// lock-free against an in-progress writer under SQLite's WAL journal mode.
type Store struct {
	mu    sync.Mutex
	db    *sql.DB
	path  string
	inTx  bool
}

// Open creates (if needed) and opens a read-write store at path, enabling
// WAL journaling and foreign-key cascades, then runs the self-healing
// migrations.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	// _txlock=immediate makes every database/sql transaction BEGIN
	// IMMEDIATE rather than the driver's default deferred BEGIN, giving
	// us the write-serializing semantics spec'd for the Store's
	// transactional scope without a second, raw-connection code path.
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + filepath.ToSlash(path) + "?_txlock=immediate"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// OpenReadOnly opens path in read-only mode via SQLite's URI `mode=ro`,
// without journaling. No migrations run; a read-only open against a store
// that hasn't been migrated yet will simply see the old schema.
func OpenReadOnly(path string) (*Store, error) {
	uri := "file:" + filepath.ToSlash(path) + "?mode=ro"
	db, err := sql.Open("sqlite3", uri)
	if err != nil {
		return nil, fmt.Errorf("open read-only database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=OFF`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// DB returns the underlying connection for read helpers that don't need a
// transaction (every store/*.go query function accepts anything shaped
// like a querier, so callers outside this package pass this value
// straight through to them).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the sqlite file path this store was opened against.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx, letting read helpers
// run against either a plain connection or within an open transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// InTransaction runs fn inside a single BEGIN IMMEDIATE transaction,
// committing on success and rolling back on any error or panic. Nested
// calls (a transaction already open on this Store) are rejected: this is
// a programmer error per spec §7 (Concurrency: nested tx detected), not a
// condition callers should try to recover from.
func (s *Store) InTransaction(fn func(tx *sql.Tx) error) (err error) {
	s.mu.Lock()
	if s.inTx {
		s.mu.Unlock()
		return fmt.Errorf("store: nested transaction detected")
	}
	s.inTx = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inTx = false
		s.mu.Unlock()
	}()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
