package embedder

import (
	"context"
	"crypto/sha256"
	"errors"
	"math"
)

// MockEmbedder is a deterministic test implementation of Embedder: the same
// input text always produces the same vector, derived from a SHA-256 digest
// and normalized to unit magnitude.
type MockEmbedder struct {
	dimensions int
	healthy    bool
	modelName  string
}

// NewMockEmbedder returns a MockEmbedder with 768 dimensions (matching a
// typical code-embedding model), healthy by default.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		dimensions: 768,
		healthy:    true,
		modelName:  "mock-embedder",
	}
}

// SetHealthy toggles the health state reported by Health.
func (m *MockEmbedder) SetHealthy(healthy bool) {
	m.healthy = healthy
}

// EmbedSingle generates a deterministic embedding for one text.
func (m *MockEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return m.generateDeterministic(text), nil
}

// Embed generates deterministic embeddings for each of texts, in order.
func (m *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = m.generateDeterministic(text)
	}
	return embeddings, nil
}

// Health returns an error when SetHealthy(false) has been called.
func (m *MockEmbedder) Health(ctx context.Context) error {
	if !m.healthy {
		return errors.New("mock embedder is unhealthy")
	}
	return nil
}

// ModelName returns the mock model's name.
func (m *MockEmbedder) ModelName() string {
	return m.modelName
}

// Dimensions returns the embedding dimension count.
func (m *MockEmbedder) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbedder) generateDeterministic(text string) []float32 {
	embedding := make([]float32, m.dimensions)
	hash := sha256.Sum256([]byte(text))

	for i := 0; i < m.dimensions; i++ {
		idx := i % len(hash)
		val := float64(hash[idx]) / 255.0
		offset := float64(i) / float64(m.dimensions)
		embedding[i] = float32(val*0.5 + offset*0.5)
	}

	var norm float64
	for _, v := range embedding {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return embedding
	}
	for i := range embedding {
		embedding[i] = float32(float64(embedding[i]) / norm)
	}
	return embedding
}
