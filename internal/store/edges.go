package store

import (
	"context"
	"fmt"

	"github.com/structgraph/structgraph/internal/models"
)

// InsertEdges persists edges in a single transaction using insert-or-ignore
// semantics on the unique (source, target, relation) key, satisfying spec
// §4.3 Pass B's atomicity invariant: if the transaction aborts, none of the
// run's edges are visible.
func (s *Store) InsertEdges(ctx context.Context, edges []*models.Edge) error {
	if len(edges) == 0 {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin edge transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO edges (source, target, relation) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, e.Source, e.Target, string(e.Relation)); err != nil {
			return fmt.Errorf("failed to insert edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit edge transaction: %w", err)
	}
	return nil
}

// EdgesFrom returns every edge whose source equals path (outbound).
func (s *Store) EdgesFrom(ctx context.Context, path string) ([]*models.Edge, error) {
	return s.queryEdges(ctx, `SELECT source, target, relation FROM edges WHERE source = ?`, path)
}

// EdgesTo returns every edge whose target equals path (inbound).
func (s *Store) EdgesTo(ctx context.Context, path string) ([]*models.Edge, error) {
	return s.queryEdges(ctx, `SELECT source, target, relation FROM edges WHERE target = ?`, path)
}

func (s *Store) queryEdges(ctx context.Context, query, path string) ([]*models.Edge, error) {
	rows, err := s.conn.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var edges []*models.Edge
	for rows.Next() {
		var e models.Edge
		var relation string
		if err := rows.Scan(&e.Source, &e.Target, &relation); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.Relation = models.Relation(relation)
		edges = append(edges, &e)
	}
	return edges, rows.Err()
}
