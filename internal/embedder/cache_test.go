package embedder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structgraph/structgraph/internal/embedder"
)

func TestCachedEmbedder_HitsAvoidUnderlyingCall(t *testing.T) {
	mock := embedder.NewMockEmbedder()
	cached := embedder.NewCachedEmbedder(mock, 16)
	ctx := context.Background()

	v1, err := cached.EmbedSingle(ctx, "foo")
	require.NoError(t, err)
	v2, err := cached.EmbedSingle(ctx, "foo")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	metrics := cached.Metrics()
	assert.EqualValues(t, 1, metrics.Hits)
	assert.EqualValues(t, 1, metrics.Misses)
}

func TestCachedEmbedder_BatchPartialHit(t *testing.T) {
	mock := embedder.NewMockEmbedder()
	cached := embedder.NewCachedEmbedder(mock, 16)
	ctx := context.Background()

	_, err := cached.EmbedSingle(ctx, "foo")
	require.NoError(t, err)

	results, err := cached.Embed(ctx, []string{"foo", "bar"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	want, err := mock.EmbedSingle(ctx, "bar")
	require.NoError(t, err)
	assert.Equal(t, want, results[1])
}

func TestCachedEmbedder_EvictsAtCapacity(t *testing.T) {
	mock := embedder.NewMockEmbedder()
	cached := embedder.NewCachedEmbedder(mock, 1)
	ctx := context.Background()

	_, err := cached.EmbedSingle(ctx, "foo")
	require.NoError(t, err)
	_, err = cached.EmbedSingle(ctx, "bar")
	require.NoError(t, err)

	assert.Equal(t, 1, cached.CacheSize())
}

func TestCachedEmbedder_ClearCache(t *testing.T) {
	mock := embedder.NewMockEmbedder()
	cached := embedder.NewCachedEmbedder(mock, 16)
	ctx := context.Background()

	_, err := cached.EmbedSingle(ctx, "foo")
	require.NoError(t, err)
	require.Equal(t, 1, cached.CacheSize())

	cached.ClearCache()
	assert.Equal(t, 0, cached.CacheSize())
}

func TestCachedEmbedder_DelegatesMetadata(t *testing.T) {
	mock := embedder.NewMockEmbedder()
	cached := embedder.NewCachedEmbedder(mock, 16)

	assert.Equal(t, mock.ModelName(), cached.ModelName())
	assert.Equal(t, mock.Dimensions(), cached.Dimensions())
	assert.NoError(t, cached.Health(context.Background()))
}
