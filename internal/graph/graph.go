// Package graph implements GraphQuery: inbound/outbound dependency-edge
// lookup by path over the Store's edges relation (spec §4.9).
package graph

import (
	"context"
	"fmt"

	"github.com/structgraph/structgraph/internal/models"
	"github.com/structgraph/structgraph/internal/pathutil"
	"github.com/structgraph/structgraph/internal/store"
)

// Query answers dependency-edge lookups against a Store.
type Query struct {
	store *store.Store
}

// New returns a Query backed by s.
func New(s *store.Store) *Query {
	return &Query{store: s}
}

// DependenciesOf returns {other, relation} pairs for path in the requested
// direction (spec §4.9): outbound rows have source = path (other = target);
// inbound rows have target = path (other = source). path is tolerant of
// both native and forward-slash separators.
func (q *Query) DependenciesOf(ctx context.Context, path string, direction models.Direction) ([]models.DependencyRef, error) {
	normalized := pathutil.Normalize(path)

	var edges []*models.Edge
	var err error
	switch direction {
	case models.DirectionOutbound:
		edges, err = q.store.EdgesFrom(ctx, normalized)
	case models.DirectionInbound:
		edges, err = q.store.EdgesTo(ctx, normalized)
	default:
		return nil, fmt.Errorf("unknown dependency direction: %q", direction)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s dependencies for %s: %w", direction, normalized, err)
	}

	refs := make([]models.DependencyRef, len(edges))
	for i, e := range edges {
		other := e.Target
		if direction == models.DirectionInbound {
			other = e.Source
		}
		refs[i] = models.DependencyRef{Other: other, Relation: e.Relation}
	}
	return refs, nil
}
