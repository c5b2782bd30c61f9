package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// errEmptyEmbedding indicates the API returned no embedding data. Retryable:
// transient upstream issues can produce empty responses behind a 200 status.
var errEmptyEmbedding = errors.New("empty embedding response")

// captionPrompt asks for the short declarative captions the store expects.
const captionPrompt = "Describe this image in one short sentence. " +
	"Reply with the caption only, no preamble."

// OpenAIProvider implements Captioner (vision chat) and Embedder using the
// OpenAI API.
type OpenAIProvider struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	maxRetries     int
	initialDelay   time.Duration
	backoffFactor  float64
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	InitialDelay   time.Duration
	BackoffFactor  float64
}

// NewOpenAIProvider creates a provider with default models.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return NewOpenAIProviderFromConfig(OpenAIConfig{APIKey: apiKey})
}

// NewOpenAIProviderFromConfig creates a provider from configuration.
func NewOpenAIProviderFromConfig(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)

	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = "text-embedding-3-small"
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 5
	}
	initialDelay := cfg.InitialDelay
	if initialDelay == 0 {
		initialDelay = 2 * time.Second
	}
	backoffFactor := cfg.BackoffFactor
	if backoffFactor == 0 {
		backoffFactor = 2.0
	}

	return &OpenAIProvider{
		client:         openai.NewClientWithConfig(config),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		maxRetries:     maxRetries,
		initialDelay:   initialDelay,
		backoffFactor:  backoffFactor,
	}
}

// Caption generates a caption for the image via a vision chat completion.
func (p *OpenAIProvider) Caption(ctx context.Context, imageBytes []byte) (string, error) {
	if len(imageBytes) == 0 {
		return "", NewProviderError("caption", 0, "empty image", nil)
	}

	req := openai.ChatCompletionRequest{
		Model: p.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: captionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: imageDataURL(imageBytes),
						},
					},
				},
			},
		},
	}

	var resp openai.ChatCompletionResponse
	err := p.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = p.client.CreateChatCompletion(ctx, req)
		return callErr
	})
	if err != nil {
		return "", p.wrapError("caption", err)
	}

	if len(resp.Choices) == 0 {
		return "", NewProviderError("caption", 0, "no choices in response", nil)
	}

	caption := strings.TrimSpace(resp.Choices[0].Message.Content)
	if caption == "" {
		return "", NewProviderError("caption", 0, "empty caption in response", nil)
	}
	return caption, nil
}

// Embed generates an embedding for the text. OpenAI embedding vectors are
// unit-norm, satisfying the Embedder contract without re-normalization.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, NewProviderError("embedding", 0, "empty text", nil)
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.embeddingModel),
		Input: []string{text},
	}

	var resp openai.EmbeddingResponse
	err := p.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = p.client.CreateEmbeddings(ctx, req)
		if callErr != nil {
			return callErr
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return errEmptyEmbedding
		}
		return nil
	})
	if err != nil {
		return nil, p.wrapError("embedding", err)
	}

	vec := make([]float32, len(resp.Data[0].Embedding))
	copy(vec, resp.Data[0].Embedding)
	return vec, nil
}

// imageDataURL wraps raw image bytes in a base64 data URL for the vision API.
func imageDataURL(imageBytes []byte) string {
	mime := http.DetectContentType(imageBytes)
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(imageBytes))
}

// withRetry executes the function with exponential backoff retry.
func (p *OpenAIProvider) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func isRetryable(err error) bool {
	// Upstream providers can return 200 with no data under transient load.
	if errors.Is(err, errEmptyEmbedding) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// Network-level request errors are retryable.
		return true
	}

	return false
}

// wrapError wraps an OpenAI error into a ProviderError.
func (p *OpenAIProvider) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(operation, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return NewProviderError(operation, 0, err.Error(), err)
}

// Ensure OpenAIProvider implements the collaborator interfaces.
var (
	_ Captioner = (*OpenAIProvider)(nil)
	_ Embedder  = (*OpenAIProvider)(nil)
)
