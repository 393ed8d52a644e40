// Package registry implements the FileRegistry: per-file content-hash
// change detection and skeleton caching (spec §4.1). Hash-based detection
// is cheaper than parsing and lets the Indexer be idempotent across runs.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/structgraph/structgraph/internal/hasher"
	"github.com/structgraph/structgraph/internal/models"
	"github.com/structgraph/structgraph/internal/pathutil"
	"github.com/structgraph/structgraph/internal/store"
)

// Registry tracks, per source file: content hash, last-index time, and
// cached skeleton, backed by the Store's files relation.
type Registry struct {
	root  string
	store *store.Store
}

// New returns a Registry rooted at root and backed by s.
func New(root string, s *store.Store) *Registry {
	return &Registry{root: root, store: s}
}

// IsChanged reports whether path is absent from the registry, its stored
// hash differs from the hash of its current on-disk content, or the file no
// longer exists (in which case callers should treat it as needing
// attention, per spec §4.1).
func (r *Registry) IsChanged(ctx context.Context, relPath string) (bool, error) {
	normalized := pathutil.Normalize(relPath)

	rec, ok, err := r.store.GetFile(ctx, normalized)
	if err != nil {
		return false, fmt.Errorf("failed to look up registry row for %s: %w", normalized, err)
	}

	content, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(normalized)))
	if err != nil {
		// Missing-on-disk is itself a "needs attention" signal, not a hard
		// failure: spec §4.1 says isChanged returns true in this case.
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", normalized, err)
	}

	if !ok {
		return true, nil
	}

	return hasher.Digest(content) != rec.ContentHash, nil
}

// Update re-reads path, recomputes its hash, and upserts
// {path, hash, now, skeleton}.
func (r *Registry) Update(ctx context.Context, relPath string, skeleton *models.Skeleton) error {
	normalized := pathutil.Normalize(relPath)

	content, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(normalized)))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", normalized, err)
	}

	hash := hasher.Digest(content)
	return r.store.UpsertFile(ctx, normalized, hash, time.Now(), skeleton)
}

// Touch records a fresh index run for path without altering its content
// hash or skeleton — used when a run re-examines a file but finds it
// unchanged, satisfying the idempotence invariant of spec §8 ("updates
// last_indexed but not hash").
func (r *Registry) Touch(ctx context.Context, relPath string) error {
	return r.store.TouchFile(ctx, pathutil.Normalize(relPath), time.Now())
}

// Skeleton returns the stored skeleton for path, tolerating both
// forward-slash and native-separator input (spec §4.8). ok is false if no
// registry row exists (the NotFound sentinel, not an error).
func (r *Registry) Skeleton(ctx context.Context, relPath string) (skeleton *models.Skeleton, ok bool, err error) {
	normalized := pathutil.Normalize(relPath)
	rec, found, err := r.store.GetFile(ctx, normalized)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up skeleton for %s: %w", normalized, err)
	}
	if !found {
		return nil, false, nil
	}
	return rec.Skeleton, true, nil
}
