package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/structgraph/structgraph/internal/config"
	"github.com/structgraph/structgraph/internal/embedder"
	"github.com/structgraph/structgraph/internal/engine"
)

// openEngine loads the project config rooted at root (falling back to
// defaults when none is saved) and wires an Engine from it. The embedder
// provider is resolved from cfg.Embedding.Provider; "mock" and "openai" are
// wired, anything else is rejected rather than silently downgraded.
func openEngine(root string) (*engine.Engine, error) {
	cfg, err := config.NewLoader(root).LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	emb, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return engine.New(root, cfg, cfg.Language, emb, logger)
}

func newEmbedder(cfg config.EmbeddingConfig) (embedder.Embedder, error) {
	switch cfg.Provider {
	case "", "mock":
		base := embedder.NewMockEmbedder()
		return embedder.NewCachedEmbedder(base, cfg.CacheSize), nil
	case "openai":
		apiKey := cfg.GetOpenAIAPIKey()
		if apiKey == "" {
			return nil, &embedder.EmbeddingError{
				Code:       "API_KEY_REQUIRED",
				Message:    "embedding.provider is \"openai\" but no API key is configured",
				Suggestion: "set embedding.api_key or the OPENAI_API_KEY environment variable",
			}
		}
		base := embedder.NewOpenAIClient(embedder.OpenAIConfig{
			APIKey: apiKey,
			Model:  cfg.Model,
		})
		return embedder.NewCachedEmbedder(base, cfg.CacheSize), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q (supported: \"mock\", \"openai\")", cfg.Provider)
	}
}
