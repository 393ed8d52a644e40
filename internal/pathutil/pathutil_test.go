package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeConvertsNativeSeparators(t *testing.T) {
	assert.Equal(t, "src/users/users.service.ts", Normalize(filepath.FromSlash("src/users/users.service.ts")))
}

func TestIsWithinRoot(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	assert.True(t, IsWithinRoot(dir, sub))
	assert.True(t, IsWithinRoot(dir, dir))
	assert.False(t, IsWithinRoot(sub, dir))
	assert.False(t, IsWithinRoot(dir, filepath.Join(dir, "..", "escaped")))
}

func TestResolveImportAppendsExtension(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "b.ts"), []byte("export const b = 1;"), 0o644))

	resolved, ok := ResolveImport(root, filepath.Join(root, "src"), "./b", ".ts")
	require.True(t, ok)
	assert.Equal(t, "src/b.ts", resolved)
}

func TestResolveImportBarrelIndex(t *testing.T) {
	root := t.TempDir()
	barrel := filepath.Join(root, "src", "barrel")
	require.NoError(t, os.MkdirAll(barrel, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(barrel, "index.ts"), []byte("export {};"), 0o644))

	resolved, ok := ResolveImport(root, filepath.Join(root, "src"), "./barrel", ".ts")
	require.True(t, ok)
	assert.Equal(t, "src/barrel/index.ts", resolved)
}

func TestResolveImportFailsForMissingTarget(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))

	_, ok := ResolveImport(root, filepath.Join(root, "src"), "./missing", ".ts")
	assert.False(t, ok)
}

func TestIsRelativeSpecifier(t *testing.T) {
	assert.True(t, IsRelativeSpecifier("./b"))
	assert.True(t, IsRelativeSpecifier("../shared/x"))
	assert.False(t, IsRelativeSpecifier("some-package"))
	assert.False(t, IsRelativeSpecifier("@app/shared"))
}
