// ABOUTME: OpenAI client for embeddings and grounded answer generation
// ABOUTME: Uses text-embedding-3-small for vectors, gpt-4o-mini for answers (configurable)
package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/harper/docqa/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultTimeout bounds each individual API attempt
	DefaultTimeout = 30 * time.Second

	// embedBatchSize caps how many texts go into one embeddings request
	embedBatchSize = 100

	// answerTemperature keeps generation close to the retrieved text
	answerTemperature = 0.2
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("DOCQA_CHAT_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      chatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        DefaultTimeout,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := openai.NewClient(config.APIKey)

	return &OpenAIClient{
		client:         client,
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		timeout:        timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// GenerateEmbedding generates one embedding vector using the configured embedding model
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// GenerateEmbeddings embeds a batch of texts, splitting the work into
// API requests of at most embedBatchSize inputs. The returned slice is
// positionally aligned with texts.
func (c *OpenAIClient) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (c *OpenAIClient) embedBatch(ctx context.Context, batch []string) ([][]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}
		if ctx.Err() != nil {
			break
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateEmbeddings(attemptCtx, openai.EmbeddingRequestStrings{
			Input: batch,
			Model: c.embeddingModel,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) != len(batch) {
			cancel()
			lastErr = fmt.Errorf("attempt %d: got %d embeddings for %d inputs", attempt+1, len(resp.Data), len(batch))
			continue
		}

		// Convert []float32 to []float64, placing each vector by its
		// response index rather than trusting response order
		vectors := make([][]float64, len(batch))
		for _, item := range resp.Data {
			if item.Index < 0 || item.Index >= len(batch) {
				continue
			}
			embedding64 := make([]float64, len(item.Embedding))
			for i, v := range item.Embedding {
				embedding64[i] = float64(v)
			}
			vectors[item.Index] = embedding64
		}

		cancel()
		return vectors, nil
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", c.maxRetries+1, lastErr)
}

// GenerateAnswer runs one chat completion with the given system and user
// prompts at low temperature, returning the raw completion text
func (c *OpenAIClient) GenerateAnswer(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(c.retryDelay, attempt))
		}
		if ctx.Err() != nil {
			break
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userPrompt,
				},
			},
			Temperature: answerTemperature,
		})

		if err != nil {
			cancel()
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Choices) == 0 {
			cancel()
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		cancel()
		return resp.Choices[0].Message.Content, nil
	}

	if lastErr == nil {
		lastErr = ctx.Err()
	}
	return "", fmt.Errorf("failed to generate answer after %d attempts: %w", c.maxRetries+1, lastErr)
}
