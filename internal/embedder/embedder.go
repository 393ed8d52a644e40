// Package embedder generates vector embeddings for chunk text (spec §4.5):
// an Embedder interface with a mock implementation for tests and an LRU
// cache decorator wired on top of it.
package embedder

import "context"

// Embedder generates vector embeddings from text.
type Embedder interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Health(ctx context.Context) error
	ModelName() string
	Dimensions() int
}

// Compile-time check that MockEmbedder implements Embedder.
var _ Embedder = (*MockEmbedder)(nil)
