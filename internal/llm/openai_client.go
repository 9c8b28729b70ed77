// ABOUTME: OpenAI-compatible client for embeddings and streaming chat
// ABOUTME: Works against any /v1 endpoint configured via API_KEY and BASE_URL
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/atelier-iris/companion/internal/config"
)

// Client wraps the OpenAI API client with retry logic for embeddings
// and server-sent streaming for chat completions.
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	temperature    float32
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a client from the companion configuration.
// A custom BaseURL points the client at any OpenAI-compatible endpoint.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		client:         openai.NewClientWithConfig(clientCfg),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		temperature:    cfg.Temperature,
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// EmbeddingModel returns the embedding model identity. It must stay fixed
// for the lifetime of one vector store.
func (c *Client) EmbeddingModel() string {
	return string(c.embeddingModel)
}

// EmbedTexts generates one embedding vector per input text, preserving order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(calculateBackoff(c.retryDelay, attempt)):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) != len(texts) {
			lastErr = fmt.Errorf("attempt %d: got %d embeddings for %d inputs", attempt+1, len(resp.Data), len(texts))
			continue
		}

		vectors := make([][]float32, len(texts))
		for _, item := range resp.Data {
			if item.Index < 0 || item.Index >= len(vectors) {
				continue
			}
			vectors[item.Index] = item.Embedding
		}
		return vectors, nil
	}

	return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", c.maxRetries+1, lastErr)
}

// ChatStream yields completion text deltas in arrival order.
// Recv returns io.EOF when the model is done.
type ChatStream struct {
	inner *openai.ChatCompletionStream
}

// Recv returns the next text delta. Empty deltas (role-only frames) are
// skipped so every returned string carries content.
func (s *ChatStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

// Close releases the underlying network stream.
func (s *ChatStream) Close() error {
	return s.inner.Close()
}

// StreamChat sends the prompt as a single user message and returns the
// completion stream. The caller owns the stream and must Close it.
func (c *Client) StreamChat(ctx context.Context, prompt string) (*ChatStream, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: c.temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting chat stream: %w", err)
	}
	return &ChatStream{inner: stream}, nil
}
