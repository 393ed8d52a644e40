package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/structgraph/structgraph/internal/config"
	"github.com/structgraph/structgraph/internal/embedder"
	"github.com/structgraph/structgraph/internal/graph"
	"github.com/structgraph/structgraph/internal/indexer"
	"github.com/structgraph/structgraph/internal/models"
	"github.com/structgraph/structgraph/internal/pathutil"
	"github.com/structgraph/structgraph/internal/registry"
	"github.com/structgraph/structgraph/internal/retriever"
	"github.com/structgraph/structgraph/internal/store"
)

// defaultSourceDir mirrors spec §4.3's default sourceDir argument.
const defaultSourceDir = "src"

// Engine wires every core component together behind the narrow surface
// external collaborators consume: IndexProject, Query, ContextReport,
// AnalyzeStructure, DependenciesOf, Skeleton.
type Engine struct {
	root     string
	cfg      *config.Config
	lang     config.LanguageConfig
	store    *store.Store
	registry *registry.Registry
	indexer  *indexer.Indexer
	graph    *graph.Query
	query    *retriever.Retriever
	logger   *slog.Logger
}

// New opens (creating if absent) the Store under root and wires every
// component, using cfg for batch size and embedder behavior. emb is the
// Embedder implementation to use (a *embedder.CachedEmbedder wrapping a
// real provider in production, *embedder.MockEmbedder in tests).
func New(root string, cfg *config.Config, lang config.LanguageConfig, emb embedder.Embedder, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	s, err := store.Open(root, cfg.Store.Dir, cfg.Store.FileName)
	if err != nil {
		return nil, newStoreError("failed to open store", err).WithCause(err)
	}

	reg := registry.New(root, s)
	idx := indexer.New(root, lang, s, emb, cfg.Embedding.BatchSize, logger)
	g := graph.New(s)
	r := retriever.New(s, emb, reg, g)

	return &Engine{
		root:     root,
		cfg:      cfg,
		lang:     lang,
		store:    s,
		registry: reg,
		indexer:  idx,
		graph:    g,
		query:    r,
		logger:   logger,
	}, nil
}

// Close releases the underlying Store connection.
func (e *Engine) Close() error {
	return e.store.Close()
}

// IndexProject brings the Store into sync with the on-disk tree rooted at
// sourceDir (relative to the project root). An empty sourceDir defaults to
// the config's SourceDir, or "src" when that is empty too.
func (e *Engine) IndexProject(ctx context.Context, sourceDir string) error {
	if sourceDir == "" {
		sourceDir = e.cfg.SourceDir
	}
	if sourceDir == "" {
		sourceDir = defaultSourceDir
	}
	if err := e.checkWithinRoot(sourceDir); err != nil {
		return err
	}
	if err := e.indexer.IndexProject(ctx, sourceDir); err != nil {
		return newStoreError("indexProject failed", err).WithCause(err)
	}
	return nil
}

// Query embeds text and returns the top limit scored chunks.
func (e *Engine) Query(ctx context.Context, text string, limit int) ([]models.SearchHit, error) {
	hits, err := e.query.Query(ctx, text, limit)
	if err != nil {
		return nil, newEmbeddingError("query failed", err).WithCause(err)
	}
	return hits, nil
}

// ContextReport renders the formatted report for text (spec §6).
func (e *Engine) ContextReport(ctx context.Context, text string) (string, error) {
	report, err := e.query.ContextReport(ctx, text)
	if err != nil {
		return "", newEmbeddingError("contextReport failed", err).WithCause(err)
	}
	return report, nil
}

// Skeleton returns the stored skeleton for path, tolerating both
// forward-slash and native-separator forms (spec §4.8). ok is false (not an
// error) when path has no registry row — NotFound is a sentinel, not a
// raised error.
func (e *Engine) Skeleton(ctx context.Context, path string) (*models.Skeleton, bool, error) {
	if err := e.checkWithinRoot(path); err != nil {
		return nil, false, err
	}
	skel, ok, err := e.registry.Skeleton(ctx, path)
	if err != nil {
		return nil, false, newIOError(fmt.Sprintf("failed to look up skeleton for %s", path), err).WithCause(err)
	}
	return skel, ok, nil
}

// AnalyzeStructure returns a human-readable skeleton summary for path,
// supplementing spec §6's undetailed analyzeStructure with the teacher's
// AGENT HINT convention (spec §4 supplemented features).
func (e *Engine) AnalyzeStructure(ctx context.Context, path string) (string, error) {
	normalized := pathutil.Normalize(path)
	skel, ok, err := e.Skeleton(ctx, normalized)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("skeleton for %s:\n(no skeleton — file not indexed)\n", normalized), nil
	}
	return fmt.Sprintf("skeleton for %s:\n%s\n\nTip: read_file(%q) for full source.\n", normalized, skel.Render(), normalized), nil
}

// DependenciesOf returns the dependency edges touching path in direction
// (spec §4.9).
func (e *Engine) DependenciesOf(ctx context.Context, path string, direction models.Direction) ([]models.DependencyRef, error) {
	if err := e.checkWithinRoot(path); err != nil {
		return nil, err
	}
	refs, err := e.graph.DependenciesOf(ctx, path, direction)
	if err != nil {
		return nil, newStoreError("dependenciesOf failed", err).WithCause(err)
	}
	return refs, nil
}

// checkWithinRoot enforces the root-containment collaborator contract (spec
// §4.10): any caller-supplied path must resolve under the project root.
func (e *Engine) checkWithinRoot(relPath string) error {
	candidate := filepath.Join(e.root, filepath.FromSlash(relPath))
	if !pathutil.IsWithinRoot(e.root, candidate) {
		return NewArgumentError(fmt.Sprintf("path %q escapes project root", relPath))
	}
	return nil
}
