package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the config file's base name, without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "yaml"
	// StructgraphDir is the directory holding structgraph's own state,
	// mirroring the teacher's PommelDir.
	StructgraphDir = ".structgraph"
)

// Loader reads and writes a project's Config, the same two-layer design as
// the teacher's config.Loader: a fresh viper.Viper per Load() to avoid
// stale state, LoadOrDefault() falling back to Default() when absent.
type Loader struct {
	projectRoot string
	v           *viper.Viper
}

// NewLoader creates a Loader rooted at projectRoot.
func NewLoader(projectRoot string) *Loader {
	return &Loader{projectRoot: projectRoot, v: viper.New()}
}

// ConfigPath returns the full path to the config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.projectRoot, StructgraphDir, ConfigFileName+"."+ConfigFileExt)
}

// DirPath returns the full path to structgraph's state directory.
func (l *Loader) DirPath() string {
	return filepath.Join(l.projectRoot, StructgraphDir)
}

// Exists reports whether a config file exists at the expected location.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.ConfigPath())
	return err == nil
}

// Load reads the configuration from disk. It errors if no config file
// exists; use LoadOrDefault for the common "may not exist yet" case.
func (l *Loader) Load() (*Config, error) {
	if !l.Exists() {
		return nil, fmt.Errorf("config file not found at %s", l.ConfigPath())
	}

	l.v = viper.New()
	l.v.SetConfigFile(l.ConfigPath())
	l.v.SetConfigType(ConfigFileExt)

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration from disk, or returns Default() if
// no config file exists yet.
func (l *Loader) LoadOrDefault() (*Config, error) {
	if !l.Exists() {
		return Default(), nil
	}
	return l.Load()
}

// Save writes cfg to disk, creating the state directory if needed.
func (l *Loader) Save(cfg *Config) error {
	dir := l.DirPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	l.v.Set("version", cfg.Version)
	l.v.Set("source_dir", cfg.SourceDir)
	l.v.Set("language", cfg.Language)
	l.v.Set("embedding", cfg.Embedding)
	l.v.Set("retrieval", cfg.Retrieval)
	l.v.Set("store", cfg.Store)

	if err := l.v.WriteConfigAs(l.ConfigPath()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes a fresh default config, failing if one already exists.
func (l *Loader) Init() (*Config, error) {
	if l.Exists() {
		return nil, fmt.Errorf("config already exists at %s", l.ConfigPath())
	}
	cfg := Default()
	if err := l.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
