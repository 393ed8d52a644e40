// Package indexer implements the orchestrator that brings the Store into
// sync with the on-disk source tree: enumerate candidates, analyze changed
// files, persist the dependency graph, then embed and persist chunks
// (spec §4.3).
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/structgraph/structgraph/internal/chunker"
	"github.com/structgraph/structgraph/internal/config"
	"github.com/structgraph/structgraph/internal/embedder"
	"github.com/structgraph/structgraph/internal/hasher"
	"github.com/structgraph/structgraph/internal/models"
	"github.com/structgraph/structgraph/internal/pathutil"
	"github.com/structgraph/structgraph/internal/registry"
	"github.com/structgraph/structgraph/internal/store"
)

// defaultBatchSize is the Pass C batch size spec §4.3 names as the default.
const defaultBatchSize = 10

// IndexStats reports counters from the most recent (or in-flight) run.
type IndexStats struct {
	TotalFiles      int64
	TotalChunks     int64
	LastIndexedAt   time.Time
	IndexingActive  bool
	FilesToProcess  int64
	FilesProcessed  int64
	IndexingStarted time.Time
}

// Indexer orchestrates the three-pass indexProject algorithm over a project
// rooted at Root, using Registry for change detection, Chunker for AST
// analysis, Store for persistence, and Embedder for vector generation.
type Indexer struct {
	root     string
	lang     config.LanguageConfig
	store    *store.Store
	registry *registry.Registry
	chunker  *chunker.Chunker
	embedder embedder.Embedder
	logger   *slog.Logger
	batch    int

	stats    IndexStats
	statsMu  sync.RWMutex
	indexing atomic.Bool
}

// New returns an Indexer. batchSize <= 0 falls back to defaultBatchSize.
func New(root string, lang config.LanguageConfig, s *store.Store, emb embedder.Embedder, batchSize int, logger *slog.Logger) *Indexer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Indexer{
		root:     root,
		lang:     lang,
		store:    s,
		registry: registry.New(root, s),
		chunker:  chunker.New(root, lang),
		embedder: emb,
		logger:   logger,
		batch:    batchSize,
	}
}

// IndexProject idempotently brings the Store into sync with the on-disk
// tree rooted at sourceDir (relative to root), per spec §4.3's algorithm.
func (idx *Indexer) IndexProject(ctx context.Context, sourceDir string) error {
	idx.indexing.Store(true)
	defer idx.indexing.Store(false)

	candidates, err := idx.enumerate(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to enumerate candidates under %s: %w", sourceDir, err)
	}

	var changed []string
	for _, rel := range candidates {
		isChanged, err := idx.registry.IsChanged(ctx, rel)
		if err != nil {
			idx.logger.Warn("failed to check change status", "path", rel, "error", err)
			continue
		}
		if isChanged {
			changed = append(changed, rel)
			continue
		}

		// Unchanged file: record that this run examined it without
		// touching its hash or skeleton (spec §8 idempotence invariant:
		// re-indexing an unchanged tree "updates last_indexed but not
		// hash").
		if err := idx.registry.Touch(ctx, rel); err != nil {
			idx.logger.Warn("failed to touch registry row", "path", rel, "error", err)
		}
	}

	idx.statsMu.Lock()
	idx.stats.IndexingActive = true
	idx.stats.FilesToProcess = int64(len(changed))
	idx.stats.FilesProcessed = 0
	idx.stats.IndexingStarted = time.Now()
	idx.statsMu.Unlock()

	var edgeBuf []*models.Edge
	var chunkBuf []*models.Chunk

	// Pass A — analyze & register.
	for _, rel := range changed {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		content, err := os.ReadFile(filepath.Join(idx.root, filepath.FromSlash(rel)))
		if err != nil {
			idx.logger.Warn("failed to read file", "path", rel, "error", err)
			idx.incrementProcessed()
			continue
		}

		hash := hasher.Digest(content)
		result, err := idx.chunker.Chunk(ctx, rel, content, hash)
		if err != nil {
			// Parse failure: logged and skipped. The registry row is not
			// updated so the next run retries (spec §4.2 failure model).
			idx.logger.Warn("failed to chunk file, skipping", "path", rel, "error", err)
			idx.incrementProcessed()
			continue
		}

		if err := idx.registry.Update(ctx, rel, result.Skeleton); err != nil {
			idx.logger.Warn("failed to update registry", "path", rel, "error", err)
			idx.incrementProcessed()
			continue
		}

		edgeBuf = append(edgeBuf, result.Edges...)
		chunkBuf = append(chunkBuf, result.Chunks...)
		idx.incrementProcessed()
	}

	// Pass B — persist graph.
	if len(edgeBuf) > 0 {
		if err := idx.store.InsertEdges(ctx, edgeBuf); err != nil {
			return fmt.Errorf("failed to persist edges: %w", err)
		}
	}

	// Pass C — embed & persist chunks, batch by batch.
	for start := 0; start < len(chunkBuf); start += idx.batch {
		end := start + idx.batch
		if end > len(chunkBuf) {
			end = len(chunkBuf)
		}
		batch := chunkBuf[start:end]

		if err := idx.embedBatch(ctx, batch); err != nil {
			idx.logger.Warn("embedding batch failed, continuing", "error", err)
			continue
		}
		if err := idx.store.UpsertChunks(ctx, batch); err != nil {
			idx.logger.Warn("failed to persist chunk batch, continuing", "error", err)
			continue
		}
	}

	idx.finalizeStats(ctx)
	return nil
}

// embedBatch constructs one embedding input per chunk and fills in Vector.
// The provider call is wrapped with embedder.WithRetry so a transient,
// retryable *EmbeddingError (rate limit, provider hiccup) is retried with
// backoff within this batch; spec §4.5/§9's "no retry across runs" is
// about the Indexer never re-trying a batch on a later run, not about
// retrying within a single call.
func (idx *Indexer) embedBatch(ctx context.Context, batch []*models.Chunk) error {
	inputs := make([]string, len(batch))
	for i, c := range batch {
		inputs[i] = c.EmbeddingInput()
	}

	var vectors [][]float32
	err := embedder.WithRetry(ctx, func() error {
		var embedErr error
		vectors, embedErr = idx.embedder.Embed(ctx, inputs)
		return embedErr
	}, embedder.DefaultRetryConfig())
	if err != nil {
		return fmt.Errorf("failed to embed batch: %w", err)
	}
	for i, v := range vectors {
		batch[i].Vector = v
	}
	return nil
}

// enumerate walks sourceDir (relative to root) and returns every candidate
// source file, normalized relative to root (spec §4.3 step 1).
func (idx *Indexer) enumerate(sourceDir string) ([]string, error) {
	base := filepath.Join(idx.root, filepath.FromSlash(sourceDir))

	var candidates []string
	err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return nil
		}
		rel, err := pathutil.Rel(idx.root, path)
		if err != nil {
			return nil
		}
		if idx.lang.IsCandidate(rel) {
			candidates = append(candidates, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (idx *Indexer) incrementProcessed() {
	idx.statsMu.Lock()
	idx.stats.FilesProcessed++
	idx.statsMu.Unlock()
}

func (idx *Indexer) finalizeStats(ctx context.Context) {
	chunks, err := idx.store.AllChunks(ctx)
	if err != nil {
		idx.logger.Warn("failed to count chunks", "error", err)
	}

	idx.statsMu.Lock()
	idx.stats.TotalChunks = int64(len(chunks))
	idx.stats.LastIndexedAt = time.Now()
	idx.stats.IndexingActive = false
	idx.stats.FilesToProcess = 0
	idx.stats.FilesProcessed = 0
	idx.stats.IndexingStarted = time.Time{}
	idx.statsMu.Unlock()
}

// Stats returns a snapshot of the indexer's progress counters.
func (idx *Indexer) Stats() IndexStats {
	idx.statsMu.RLock()
	defer idx.statsMu.RUnlock()
	stats := idx.stats
	stats.IndexingActive = idx.indexing.Load()
	return stats
}
