package embedder

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedEmbedder wraps an Embedder with an LRU cache keyed by the exact text
// handed to EmbedSingle/Embed (the chunk's EmbeddingInput), avoiding redundant
// provider calls for content that re-indexes unchanged (spec §4.5).
type CachedEmbedder struct {
	embedder Embedder
	cache    *lru.Cache[string, []float32]
	mu       sync.Mutex
	metrics  CacheMetrics
}

// CacheMetrics reports cache hit/miss counters.
type CacheMetrics struct {
	Hits   int64
	Misses int64
}

var _ Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder wraps embedder with an LRU cache of the given capacity.
// capacity <= 0 falls back to a single-entry cache rather than panicking, so
// a zero-value config never breaks indexing.
func NewCachedEmbedder(embedder Embedder, capacity int) *CachedEmbedder {
	if capacity <= 0 {
		capacity = 1
	}
	cache, _ := lru.New[string, []float32](capacity)
	return &CachedEmbedder{embedder: embedder, cache: cache}
}

// EmbedSingle returns the cached vector for text if present, otherwise
// embeds it via the wrapped Embedder and caches the result.
func (c *CachedEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		c.recordHit()
		return v, nil
	}
	c.recordMiss()

	v, err := c.embedder.EmbedSingle(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, v)
	return v, nil
}

// Embed resolves each text against the cache, issuing a single underlying
// Embed call for the texts that miss.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	var uncachedTexts []string
	var uncachedIndices []int

	for i, text := range texts {
		if v, ok := c.cache.Get(text); ok {
			c.recordHit()
			results[i] = v
			continue
		}
		c.recordMiss()
		uncachedTexts = append(uncachedTexts, text)
		uncachedIndices = append(uncachedIndices, i)
	}

	if len(uncachedTexts) == 0 {
		return results, nil
	}

	embeddings, err := c.embedder.Embed(ctx, uncachedTexts)
	if err != nil {
		return nil, err
	}
	for i, v := range embeddings {
		idx := uncachedIndices[i]
		results[idx] = v
		c.cache.Add(uncachedTexts[i], v)
	}
	return results, nil
}

// Health delegates to the wrapped Embedder.
func (c *CachedEmbedder) Health(ctx context.Context) error {
	return c.embedder.Health(ctx)
}

// ModelName delegates to the wrapped Embedder.
func (c *CachedEmbedder) ModelName() string {
	return c.embedder.ModelName()
}

// Dimensions delegates to the wrapped Embedder.
func (c *CachedEmbedder) Dimensions() int {
	return c.embedder.Dimensions()
}

// Metrics returns a snapshot of cache hit/miss counters.
func (c *CachedEmbedder) Metrics() CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metrics
}

// CacheSize returns the number of entries currently cached.
func (c *CachedEmbedder) CacheSize() int {
	return c.cache.Len()
}

// ClearCache discards every cached entry.
func (c *CachedEmbedder) ClearCache() {
	c.cache.Purge()
}

func (c *CachedEmbedder) recordHit() {
	c.mu.Lock()
	c.metrics.Hits++
	c.mu.Unlock()
}

func (c *CachedEmbedder) recordMiss() {
	c.mu.Lock()
	c.metrics.Misses++
	c.mu.Unlock()
}
