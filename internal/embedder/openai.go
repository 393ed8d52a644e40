package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// OpenAIConfig configures the OpenAI-backed Embedder (spec §2/§4.5: the
// Embedder "calls an external embedding service").
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns sane defaults for OpenAIConfig.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		Model:   "text-embedding-3-small",
		BaseURL: "https://api.openai.com",
		Timeout: 30 * time.Second,
	}
}

// OpenAIClient generates embeddings via OpenAI's `/v1/embeddings` endpoint.
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type openAIEmbedRequest struct {
	Model string `json:"model"`
	Input any    `json:"input"`
}

type openAIEmbedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIClient returns an OpenAIClient, filling unset fields of cfg from
// DefaultOpenAIConfig.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	defaults := DefaultOpenAIConfig()
	if cfg.Model == "" {
		cfg.Model = defaults.Model
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Health issues a minimal embedding request to verify the API key and
// connectivity.
func (c *OpenAIClient) Health(ctx context.Context) error {
	_, err := c.EmbedSingle(ctx, "health check")
	return err
}

// EmbedSingle embeds one piece of text.
func (c *OpenAIClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, &EmbeddingError{
			Code:    "EMBEDDING_EMPTY",
			Message: "OpenAI returned no embeddings for the input",
		}
	}
	return embeddings[0], nil
}

// Embed embeds each of texts in a single request, preserving order.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	return c.embed(ctx, texts)
}

func (c *OpenAIClient) embed(ctx context.Context, input any) ([][]float32, error) {
	jsonBody, err := json.Marshal(openAIEmbedRequest{Model: c.model, Input: input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrProviderUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp, body)
	}

	var embedResp openAIEmbedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, &EmbeddingError{
			Code:    "INVALID_RESPONSE",
			Message: "received invalid response from OpenAI",
			Cause:   err,
		}
	}

	result := make([][]float32, len(embedResp.Data))
	for _, item := range embedResp.Data {
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		if item.Index < len(result) {
			result[item.Index] = vec
		}
	}
	return result, nil
}

func (c *OpenAIClient) handleErrorResponse(resp *http.Response, body []byte) error {
	var errResp openAIErrorResponse
	json.Unmarshal(body, &errResp) //nolint:errcheck // status code drives the branch either way

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &EmbeddingError{
			Code:       "AUTH_FAILED",
			Message:    "invalid OpenAI API key",
			Suggestion: "set embedding.api_key or OPENAI_API_KEY",
			Retryable:  false,
		}
	case http.StatusTooManyRequests:
		return &EmbeddingError{
			Code:       "RATE_LIMITED",
			Message:    "OpenAI rate limit exceeded",
			Suggestion: "retrying automatically",
			Retryable:  true,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case http.StatusPaymentRequired:
		return &EmbeddingError{
			Code:       "QUOTA_EXCEEDED",
			Message:    "OpenAI quota exhausted",
			Suggestion: "check billing at platform.openai.com",
			Retryable:  false,
		}
	case http.StatusBadRequest:
		return &EmbeddingError{
			Code:      "INVALID_REQUEST",
			Message:   fmt.Sprintf("invalid request: %s", errResp.Error.Message),
			Retryable: false,
		}
	default:
		return &EmbeddingError{
			Code:      "REQUEST_FAILED",
			Message:   fmt.Sprintf("OpenAI request failed with status %d: %s", resp.StatusCode, errResp.Error.Message),
			Retryable: resp.StatusCode >= 500,
		}
	}
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// ModelName returns the configured model name.
func (c *OpenAIClient) ModelName() string {
	return c.model
}

// Dimensions returns text-embedding-3-small's output dimensionality.
func (c *OpenAIClient) Dimensions() int {
	return 1536
}

var _ Embedder = (*OpenAIClient)(nil)
