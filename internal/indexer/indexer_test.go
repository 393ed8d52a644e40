package indexer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structgraph/structgraph/internal/config"
	"github.com/structgraph/structgraph/internal/embedder"
	"github.com/structgraph/structgraph/internal/indexer"
	"github.com/structgraph/structgraph/internal/store"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestIndexer(t *testing.T) (*indexer.Indexer, string, *store.Store) {
	t.Helper()
	root := t.TempDir()
	s, err := store.Open(root, ".agent", "structgraph.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	idx := indexer.New(root, config.DefaultLanguageConfig(), s, embedder.NewMockEmbedder(), 10, nil)
	return idx, root, s
}

const repoServiceSource = `import { Injectable } from '@nestjs/common';
import { UsersRepository } from './users.repository';

@Injectable()
export class UsersService {
  constructor(private readonly repo: UsersRepository) {}

  async findOne(id: string): Promise<User> {
    return this.repo.findOne(id);
  }
}
`

func TestIndexProject_IndexesAndEmbeds(t *testing.T) {
	ctx := context.Background()
	idx, root, s := newTestIndexer(t)

	writeFile(t, root, "src/users/users.repository.ts", "export class UsersRepository {}\n")
	writeFile(t, root, "src/users/users.service.ts", repoServiceSource)

	require.NoError(t, idx.IndexProject(ctx, "src"))

	chunks, err := s.AllChunks(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.NotEmpty(t, c.Vector)
	}

	edges, err := s.EdgesFrom(ctx, "src/users/users.service.ts")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "src/users/users.repository.ts", edges[0].Target)
}

func TestIndexProject_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	idx, root, s := newTestIndexer(t)

	writeFile(t, root, "src/users/users.repository.ts", "export class UsersRepository {}\n")
	writeFile(t, root, "src/users/users.service.ts", repoServiceSource)

	require.NoError(t, idx.IndexProject(ctx, "src"))
	first, err := s.AllChunks(ctx)
	require.NoError(t, err)

	firstRec, ok, err := s.GetFile(ctx, "src/users/users.repository.ts")
	require.NoError(t, err)
	require.True(t, ok)
	firstHash := firstRec.ContentHash

	// last_indexed has one-second resolution (spec §3: "monotonic epoch");
	// sleep past the boundary so the second run's touch is observably later.
	time.Sleep(1100 * time.Millisecond)

	require.NoError(t, idx.IndexProject(ctx, "src"))
	second, err := s.AllChunks(ctx)
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))

	// Re-indexing an unchanged tree must update last_indexed but not hash
	// (spec §8 idempotence invariant) for every unchanged file.
	secondRec, ok, err := s.GetFile(ctx, "src/users/users.repository.ts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, firstHash, secondRec.ContentHash)
	assert.True(t, secondRec.LastIndexed.After(firstRec.LastIndexed))
}

func TestIndexProject_SkipsTestSpecFiles(t *testing.T) {
	ctx := context.Background()
	idx, root, s := newTestIndexer(t)

	writeFile(t, root, "src/users/users.service.spec.ts", "describe('x', () => {});\n")

	require.NoError(t, idx.IndexProject(ctx, "src"))

	chunks, err := s.AllChunks(ctx)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIndexProject_StatsReflectRun(t *testing.T) {
	ctx := context.Background()
	idx, root, _ := newTestIndexer(t)

	writeFile(t, root, "src/users/users.repository.ts", "export class UsersRepository {}\n")

	require.NoError(t, idx.IndexProject(ctx, "src"))

	stats := idx.Stats()
	assert.False(t, stats.IndexingActive)
	assert.True(t, stats.TotalChunks > 0)
	assert.False(t, stats.LastIndexedAt.IsZero())
}
