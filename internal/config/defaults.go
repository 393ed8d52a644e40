package config

// Default returns a Config with sensible default values, mirroring the
// teacher's config.Default().
func Default() *Config {
	return &Config{
		Version:   1,
		SourceDir: "src",
		Language:  DefaultLanguageConfig(),
		Embedding: EmbeddingConfig{
			BatchSize: 10,
			CacheSize: 1000,
			Provider:  "mock",
			Model:     "mock-embedder",
		},
		Retrieval: RetrievalConfig{
			DefaultLimit:    5,
			ContextLimit:    4,
			MaxImportsShown: 5,
		},
		Store: StoreConfig{
			Dir:      ".agent",
			FileName: "structgraph.db",
		},
	}
}
