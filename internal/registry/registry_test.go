package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structgraph/structgraph/internal/models"
	"github.com/structgraph/structgraph/internal/registry"
	"github.com/structgraph/structgraph/internal/store"
)

func newTestRegistry(t *testing.T) (*registry.Registry, string) {
	t.Helper()
	root := t.TempDir()
	s, err := store.Open(root, ".agent", "structgraph.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return registry.New(root, s), root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIsChanged_NewFile(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	writeFile(t, root, "a.ts", "class A {}")

	changed, err := reg.IsChanged(ctx, "a.ts")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestIsChanged_MissingOnDisk(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)

	changed, err := reg.IsChanged(ctx, "missing.ts")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestUpdate_ThenUnchanged(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	writeFile(t, root, "a.ts", "class A {}")

	require.NoError(t, reg.Update(ctx, "a.ts", models.NewAtomicSkeleton()))

	changed, err := reg.IsChanged(ctx, "a.ts")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdate_ThenByteChangeDetected(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	writeFile(t, root, "a.ts", "class A {}")
	require.NoError(t, reg.Update(ctx, "a.ts", nil))

	writeFile(t, root, "a.ts", "class B {}")
	changed, err := reg.IsChanged(ctx, "a.ts")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestSkeleton_NotFoundIsNotError(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry(t)

	skel, ok, err := reg.Skeleton(ctx, "nope.ts")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, skel)
}

func TestSkeleton_NativeAndForwardSlashEquivalent(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	writeFile(t, root, "users/users.service.ts", "class UsersService {}")
	require.NoError(t, reg.Update(ctx, "users/users.service.ts", nil))

	s1, ok1, err1 := reg.Skeleton(ctx, "users/users.service.ts")
	s2, ok2, err2 := reg.Skeleton(ctx, filepath.FromSlash("users/users.service.ts"))
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, s1, s2)
}

func TestTouch_DoesNotChangeHash(t *testing.T) {
	ctx := context.Background()
	reg, root := newTestRegistry(t)
	writeFile(t, root, "a.ts", "class A {}")
	require.NoError(t, reg.Update(ctx, "a.ts", nil))

	require.NoError(t, reg.Touch(ctx, "a.ts"))

	changed, err := reg.IsChanged(ctx, "a.ts")
	require.NoError(t, err)
	assert.False(t, changed)
}
