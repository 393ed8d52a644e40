package embedder

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryConfig configures retry behavior for a single embedding call.
type RetryConfig struct {
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultRetryConfig returns sensible defaults for transient-failure retry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		BaseBackoff: 1 * time.Second,
		MaxBackoff:  30 * time.Second,
	}
}

// WithRetry executes fn, retrying with exponential backoff while the error
// it returns is a retryable *EmbeddingError. This retries within one batch
// call only — the Indexer itself never retries a failed batch across runs.
func WithRetry(ctx context.Context, fn func() error, cfg RetryConfig) error {
	if cfg.MaxRetries == 0 {
		cfg = DefaultRetryConfig()
	}

	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var embErr *EmbeddingError
		if !errors.As(err, &embErr) || !embErr.Retryable {
			return err
		}
		if attempt == cfg.MaxRetries {
			break
		}

		backoff := embErr.RetryAfter
		if backoff == 0 {
			backoff = cfg.BaseBackoff * time.Duration(1<<attempt)
			if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
				backoff = cfg.MaxBackoff
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
