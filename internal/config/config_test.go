package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structgraph/structgraph/internal/config"
)

func TestLoader_LoadOrDefaultWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoader(dir)

	cfg, err := loader.LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoader_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoader(dir)

	cfg := config.Default()
	cfg.SourceDir = "app"
	cfg.Embedding.BatchSize = 25

	require.NoError(t, loader.Save(cfg))
	assert.True(t, loader.Exists())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "app", loaded.SourceDir)
	assert.Equal(t, 25, loaded.Embedding.BatchSize)
}

func TestLoader_InitFailsWhenConfigExists(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoader(dir)

	_, err := loader.Init()
	require.NoError(t, err)

	_, err = loader.Init()
	assert.Error(t, err)
}

func TestLoader_ConfigPathUnderStructgraphDir(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoader(dir)
	assert.Equal(t, filepath.Join(dir, ".structgraph", "config.yaml"), loader.ConfigPath())
}

func TestLoad_MissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoader(dir)
	_, err := loader.Load()
	assert.Error(t, err)
}

func TestMain_TempDirIsClean(t *testing.T) {
	dir := t.TempDir()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
