package embedder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structgraph/structgraph/internal/embedder"
)

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	cfg := embedder.RetryConfig{MaxRetries: 3, BaseBackoff: time.Millisecond, MaxBackoff: 10 * time.Millisecond}

	err := embedder.WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return embedder.ErrProviderUnavailable
		}
		return nil
	}, cfg)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	cfg := embedder.RetryConfig{MaxRetries: 3, BaseBackoff: time.Millisecond}

	err := embedder.WithRetry(context.Background(), func() error {
		calls++
		return embedder.ErrInvalidRequest
	}, cfg)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ExhaustsRetries(t *testing.T) {
	cfg := embedder.RetryConfig{MaxRetries: 2, BaseBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}

	err := embedder.WithRetry(context.Background(), func() error {
		return embedder.ErrRateLimited
	}, cfg)

	require.Error(t, err)
	assert.True(t, errors.Is(err, embedder.ErrRateLimited))
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := embedder.WithRetry(ctx, func() error {
		return embedder.ErrRateLimited
	}, embedder.DefaultRetryConfig())

	assert.ErrorIs(t, err, context.Canceled)
}
