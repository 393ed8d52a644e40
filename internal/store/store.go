// Package store implements the embedded durable Store: three relations
// (file registry, dependency edges, code chunks) plus the secondary
// indexes the Retriever and GraphQuery need, backed by mattn/go-sqlite3.
// The file lives at <root>/<dir>/<file-name> (spec §6) and is created with
// its enclosing directory on first use, with write-ahead journaling for
// write throughput.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the handle onto the project's persisted index; Open connects and
// applies the schema immediately. Components receive a *Store by reference; nothing in
// structgraph reaches for a global (spec §5, "no mutable globals").
type Store struct {
	conn *sql.DB
	path string
}

// Open creates or opens the Store at root/dir/fileName, creating the
// enclosing directory if needed and enabling WAL journaling and foreign
// key enforcement.
func Open(root, dir, fileName string) (*Store, error) {
	stateDir := filepath.Join(root, dir)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", stateDir, err)
	}

	dbPath := filepath.Join(stateDir, fileName)
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", dbPath, err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{conn: conn, path: dbPath}
	if err := s.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the on-disk path of the store file.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			last_indexed INTEGER NOT NULL,
			skeleton TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS edges (
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			relation TEXT NOT NULL,
			FOREIGN KEY (source) REFERENCES files(path),
			UNIQUE (source, target, relation)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			file_path TEXT NOT NULL,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			parent_id TEXT,
			metadata TEXT NOT NULL,
			vector TEXT NOT NULL,
			FOREIGN KEY (file_path) REFERENCES files(path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path)`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
