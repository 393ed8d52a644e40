package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/structgraph/structgraph/internal/models"
)

// UpsertChunks persists a batch of chunks in a single transaction, upserting
// by id (spec §4.3 Pass C, §8 "atomicity per pass": if the batch transaction
// aborts, none of its chunks appear).
func (s *Store) UpsertChunks(ctx context.Context, chunks []*models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin chunk transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, file_path, type, content, parent_id, metadata, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_path = excluded.file_path,
			type = excluded.type,
			content = excluded.content,
			parent_id = excluded.parent_id,
			metadata = excluded.metadata,
			vector = excluded.vector
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare chunk upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for chunk %s: %w", c.ID, err)
		}
		vecJSON, err := json.Marshal(c.Vector)
		if err != nil {
			return fmt.Errorf("failed to marshal vector for chunk %s: %w", c.ID, err)
		}

		var parentID sql.NullString
		if c.ParentID != nil {
			parentID = sql.NullString{String: *c.ParentID, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, c.ID, c.FilePath, string(c.Type), c.Content, parentID, string(metaJSON), string(vecJSON)); err != nil {
			return fmt.Errorf("failed to upsert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunk transaction: %w", err)
	}
	return nil
}

// AllChunks returns every chunk in the store, for the Retriever's linear
// vector scan (spec §4.7).
func (s *Store) AllChunks(ctx context.Context) ([]*models.Chunk, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, file_path, type, content, parent_id, metadata, vector FROM chunks ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*models.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// ChunksByFile returns every chunk owned by path, ordered by rowid (insertion order).
func (s *Store) ChunksByFile(ctx context.Context, path string) ([]*models.Chunk, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, file_path, type, content, parent_id, metadata, vector
		FROM chunks WHERE file_path = ? ORDER BY rowid
	`, path)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks for %s: %w", path, err)
	}
	defer rows.Close()

	var chunks []*models.Chunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// ChunkByID returns the chunk with the given id, or ok=false if not found.
func (s *Store) ChunkByID(ctx context.Context, id string) (*models.Chunk, bool, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, file_path, type, content, parent_id, metadata, vector FROM chunks WHERE id = ?
	`, id)
	c, err := scanChunk(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChunk(row rowScanner) (*models.Chunk, error) {
	var (
		c          models.Chunk
		chunkType  string
		parentID   sql.NullString
		metaRaw    string
		vectorRaw  string
	)

	if err := row.Scan(&c.ID, &c.FilePath, &chunkType, &c.Content, &parentID, &metaRaw, &vectorRaw); err != nil {
		return nil, err
	}

	c.Type = models.ChunkType(chunkType)
	if parentID.Valid {
		pid := parentID.String
		c.ParentID = &pid
	}
	if err := json.Unmarshal([]byte(metaRaw), &c.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata for chunk %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(vectorRaw), &c.Vector); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vector for chunk %s: %w", c.ID, err)
	}
	return &c, nil
}
