package chunker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structgraph/structgraph/internal/chunker"
	"github.com/structgraph/structgraph/internal/config"
	"github.com/structgraph/structgraph/internal/models"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const serviceSource = `import { Injectable } from '@nestjs/common';
import { UsersRepository } from './users.repository';

@Injectable()
export class UsersService {
  private readonly repo: UsersRepository;

  constructor(repo: UsersRepository) {
    this.repo = repo;
  }

  @Log()
  async findOne(id: string): Promise<User> {
    return this.repo.findOne(id);
  }

  async remove(id: string): Promise<void> {
    await this.repo.remove(id);
  }
}
`

const dtoSource = `export class CreateUserDto {
  @IsString()
  name: string;

  @IsEmail()
  email: string;
}
`

func TestChunk_LogicFile_ParentChildSplit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "users/users.repository.ts", "export class UsersRepository {}\n")
	writeFile(t, root, "users/users.service.ts", serviceSource)

	c := chunker.New(root, config.DefaultLanguageConfig())
	result, err := c.Chunk(context.Background(), "users/users.service.ts", []byte(serviceSource), "deadbeef")
	require.NoError(t, err)

	var parent *models.Chunk
	var methods []*models.Chunk
	for _, ch := range result.Chunks {
		switch ch.Type {
		case models.ChunkTypeClassSignature:
			parent = ch
		case models.ChunkTypeMethod:
			methods = append(methods, ch)
		}
	}

	require.NotNil(t, parent)
	assert.Equal(t, "UsersService", parent.Metadata.ClassName)
	assert.Contains(t, parent.Content, "import { UsersRepository }")
	assert.Contains(t, parent.Content, "@Injectable()")
	assert.Contains(t, parent.Content, "constructor(repo: UsersRepository)")
	assert.Contains(t, parent.Content, "methods indexed as children")
	assert.NotContains(t, parent.Content, "findOne")

	require.Len(t, methods, 2)
	for _, m := range methods {
		require.NotNil(t, m.ParentID)
		assert.Equal(t, parent.ID, *m.ParentID)
		assert.Equal(t, "UsersService", m.Metadata.ClassName)
	}

	require.NotNil(t, result.Skeleton)
	assert.Len(t, result.Skeleton.Classes, 1)
	assert.ElementsMatch(t, []string{
		"findOne(id: string): Promise<User>;",
		"remove(id: string): Promise<void>;",
	}, result.Skeleton.Classes[0].Methods)
}

func TestChunk_LogicFile_RelativeImportEdge(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "users/users.repository.ts", "export class UsersRepository {}\n")
	writeFile(t, root, "users/users.service.ts", serviceSource)

	c := chunker.New(root, config.DefaultLanguageConfig())
	result, err := c.Chunk(context.Background(), "users/users.service.ts", []byte(serviceSource), "deadbeef")
	require.NoError(t, err)

	require.Len(t, result.Edges, 1)
	edge := result.Edges[0]
	assert.Equal(t, "users/users.service.ts", edge.Source)
	assert.Equal(t, "users/users.repository.ts", edge.Target)
	assert.Equal(t, models.RelationImport, edge.Relation)
}

func TestChunk_LogicFile_NonRelativeImportDropped(t *testing.T) {
	root := t.TempDir()
	source := "import { Injectable } from '@nestjs/common';\n\n@Injectable()\nexport class Foo {}\n"
	writeFile(t, root, "foo.ts", source)

	c := chunker.New(root, config.DefaultLanguageConfig())
	result, err := c.Chunk(context.Background(), "foo.ts", []byte(source), "deadbeef")
	require.NoError(t, err)
	assert.Empty(t, result.Edges)
}

func TestChunk_AtomicFile_SingleFullChunk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "users/dto/create-user.dto.ts", dtoSource)

	c := chunker.New(root, config.DefaultLanguageConfig())
	result, err := c.Chunk(context.Background(), "users/dto/create-user.dto.ts", []byte(dtoSource), "deadbeef")
	require.NoError(t, err)

	require.Len(t, result.Chunks, 1)
	assert.Equal(t, models.ChunkTypeFile, result.Chunks[0].Type)
	assert.Equal(t, dtoSource, result.Chunks[0].Content)
	assert.True(t, result.Skeleton.IsAtomic())
	assert.Empty(t, result.Edges)
}

func TestChunk_ConfigFile_TaggedDistinctly(t *testing.T) {
	root := t.TempDir()
	source := `import { Module } from '@nestjs/common';
import { UsersService } from './users.service';

@Module({
  providers: [UsersService],
})
export class UsersModule {}
`
	writeFile(t, root, "users/users.service.ts", "export class UsersService {}\n")
	writeFile(t, root, "users/users.module.ts", source)

	c := chunker.New(root, config.DefaultLanguageConfig())
	result, err := c.Chunk(context.Background(), "users/users.module.ts", []byte(source), "deadbeef")
	require.NoError(t, err)

	require.Len(t, result.Chunks, 1)
	assert.Equal(t, models.ChunkTypeConfig, result.Chunks[0].Type)
}

func TestChunk_EmptyFile_NoChunksNoError(t *testing.T) {
	root := t.TempDir()
	c := chunker.New(root, config.DefaultLanguageConfig())
	result, err := c.Chunk(context.Background(), "empty.ts", nil, "deadbeef")
	require.NoError(t, err)
	assert.Empty(t, result.Chunks)
	assert.Empty(t, result.Edges)
}
