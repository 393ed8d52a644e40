package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/structgraph/structgraph/internal/models"
)

// UpsertFile inserts or updates the file row for path. Called once per
// changed file in Pass A (spec §4.3), before any edge whose source equals
// path is persisted — the ordering that makes the weak referential
// integrity invariant hold.
func (s *Store) UpsertFile(ctx context.Context, path, contentHash string, lastIndexed time.Time, skeleton *models.Skeleton) error {
	skelJSON, err := marshalSkeleton(skeleton)
	if err != nil {
		return fmt.Errorf("failed to marshal skeleton for %s: %w", path, err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO files (path, content_hash, last_indexed, skeleton)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash = excluded.content_hash,
			last_indexed = excluded.last_indexed,
			skeleton = excluded.skeleton
	`, path, contentHash, lastIndexed.Unix(), skelJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert file %s: %w", path, err)
	}
	return nil
}

// TouchFile updates only last_indexed for path, leaving content_hash and
// skeleton untouched. Used for the idempotent re-index case: an unchanged
// file's registry row should record a fresh index run without looking like
// it changed (spec §8: "updates last_indexed but not hash").
func (s *Store) TouchFile(ctx context.Context, path string, lastIndexed time.Time) error {
	_, err := s.conn.ExecContext(ctx, `
		UPDATE files SET last_indexed = ? WHERE path = ?
	`, lastIndexed.Unix(), path)
	if err != nil {
		return fmt.Errorf("failed to touch file %s: %w", path, err)
	}
	return nil
}

// GetFile returns the file row for path, or ok=false if no row exists.
func (s *Store) GetFile(ctx context.Context, path string) (rec *models.FileRecord, ok bool, err error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT path, content_hash, last_indexed, skeleton FROM files WHERE path = ?
	`, path)

	var (
		p, hash string
		indexed int64
		skelRaw sql.NullString
	)
	if err := row.Scan(&p, &hash, &indexed, &skelRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	skeleton, err := unmarshalSkeleton(skelRaw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal skeleton for %s: %w", path, err)
	}

	return &models.FileRecord{
		Path:        p,
		ContentHash: hash,
		LastIndexed: time.Unix(indexed, 0).UTC(),
		Skeleton:    skeleton,
	}, true, nil
}

func marshalSkeleton(skeleton *models.Skeleton) (sql.NullString, error) {
	if skeleton == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(skeleton)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func unmarshalSkeleton(raw sql.NullString) (*models.Skeleton, error) {
	if !raw.Valid {
		return nil, nil
	}
	var skeleton models.Skeleton
	if err := json.Unmarshal([]byte(raw.String), &skeleton); err != nil {
		return nil, err
	}
	return &skeleton, nil
}
