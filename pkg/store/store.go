// Package store persists projects, trees, conversation nodes and
// settings in a SQLite database. Deletes are soft everywhere: rows get a
// deleted_at stamp and stay restorable until permanently removed.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist or is not
// in the expected deletion state.
var ErrNotFound = errors.New("not found")

// Store handles all database access.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and applies any
// pending migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The pragma rides the DSN so every pooled connection gets it.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Serialized access; modernc's driver is not safe for concurrent
	// writes on one connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the conventional database location under the
// user's data directory.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, "tangential", "tangential.db"), nil
}

// migrate applies pending named migrations in order, recording each one
// in the _migrations table.
func (s *Store) migrate() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS _migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return err
	}

	applied := make(map[string]bool)
	rows, err := s.db.Query("SELECT name FROM _migrations")
	if err != nil {
		return err
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.name] {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
		if _, err := s.db.Exec("INSERT INTO _migrations (name) VALUES (?)", m.name); err != nil {
			return fmt.Errorf("record migration %s: %w", m.name, err)
		}
	}

	return nil
}

type migration struct {
	name string
	sql  string
}

var migrations = []migration{
	{
		name: "001_initial_schema",
		sql: `
		CREATE TABLE projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT,
			deleted_at TEXT
		);

		CREATE TABLE trees (
			id TEXT PRIMARY KEY,
			project_id TEXT REFERENCES projects(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			system_prompt TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT,
			deleted_at TEXT
		);

		CREATE TABLE nodes (
			id TEXT PRIMARY KEY,
			tree_id TEXT NOT NULL REFERENCES trees(id) ON DELETE CASCADE,
			parent_id TEXT REFERENCES nodes(id) ON DELETE CASCADE,
			user_content TEXT NOT NULL,
			assistant_content TEXT,
			summary TEXT,
			model TEXT,
			tokens INTEGER,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT,
			deleted_at TEXT,
			failed INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT
		);

		CREATE INDEX idx_trees_project ON trees(project_id);
		CREATE INDEX idx_nodes_tree ON nodes(tree_id);
		CREATE INDEX idx_nodes_parent ON nodes(parent_id);
		`,
	},
}
