// Package config loads structgraph's project configuration: where source
// lives, how files are classified for chunking, and how the embedder and
// store are sized. It follows the teacher's two-layer design — a plain Go
// struct with yaml/mapstructure tags, and a viper-backed Loader that falls
// back to Default() when no config file is present.
package config

import "os"

// Config is structgraph's top-level project configuration.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// SourceDir is the directory indexProject scans by default (spec §4.3).
	SourceDir string `yaml:"source_dir" mapstructure:"source_dir"`

	Language LanguageConfig `yaml:"language" mapstructure:"language"`

	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`

	Retrieval RetrievalConfig `yaml:"retrieval" mapstructure:"retrieval"`

	Store StoreConfig `yaml:"store" mapstructure:"store"`
}

// EmbeddingConfig controls the Embedder's batching and caching.
type EmbeddingConfig struct {
	// BatchSize is the fixed batch size for embedding requests (spec §4.3
	// Pass C, §4.5 — default 10 to respect backend rate limits).
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
	// CacheSize bounds the LRU cache of previously embedded chunk content.
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`
	// Provider selects the embedding backend ("mock", "openai").
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	// APIKey authenticates against the provider's API when Provider requires
	// one (e.g. "openai"). Falls back to OPENAI_API_KEY when unset — see
	// GetOpenAIAPIKey.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// GetOpenAIAPIKey returns c.APIKey if set, else the OPENAI_API_KEY
// environment variable, mirroring the teacher's config-then-env fallback.
func (c EmbeddingConfig) GetOpenAIAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

// RetrievalConfig holds the Retriever's result sizes as saved and loaded
// with the config. The Retriever does not read these fields: it uses its
// own constants, which have the same values as Default().
type RetrievalConfig struct {
	// DefaultLimit mirrors query()'s default top-k (spec §4.7: 5).
	DefaultLimit int `yaml:"default_limit" mapstructure:"default_limit"`
	// ContextLimit mirrors contextReport()'s internal query() limit (spec §4.7: 4).
	ContextLimit int `yaml:"context_limit" mapstructure:"context_limit"`
	// MaxImportsShown mirrors the cap on the outbound dependency list before
	// the remainder is summarized as "…and N more" (spec §4.7, §6: 5).
	MaxImportsShown int `yaml:"max_imports_shown" mapstructure:"max_imports_shown"`
}

// StoreConfig controls where the embedded Store file lives.
type StoreConfig struct {
	// Dir is the directory (relative to project root) holding the store
	// file, e.g. ".agent" (spec §6: "<root>/.agent/<store-file-name>").
	Dir string `yaml:"dir" mapstructure:"dir"`
	// FileName is the store's file name within Dir.
	FileName string `yaml:"file_name" mapstructure:"file_name"`
}
