package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
)

const (
	// Groq exposes an OpenAI-compatible API surface.
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.1-70b-versatile"
	maxTokens      = 8192
)

type Client struct {
	*openai.Client
	model string
}

func New(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{Client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *Client) Complete(ctx context.Context, prompt string, opts llmdomain.Options) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("groq: prompt must not be empty")
	}
	model := opts.Model
	if model == "" {
		model = c.model
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if opts.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: opts.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: prompt,
	})

	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.4,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq: %w: no choices", llmdomain.ErrMalformedResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("groq: %w: empty message", llmdomain.ErrMalformedResponse)
	}
	return text, nil
}

// mapError converges the OpenAI client's error surface onto the shared
// failure taxonomy.
func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("groq: %w: %v", llmdomain.ErrAuthFailed, apiErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("groq: %w", llmdomain.ErrRateLimited)
		default:
			if apiErr.HTTPStatusCode >= 500 {
				return fmt.Errorf("groq: %w: status %d", llmdomain.ErrProviderUnreachable, apiErr.HTTPStatusCode)
			}
			return fmt.Errorf("groq: %w: %v", llmdomain.ErrMalformedResponse, apiErr.Message)
		}
	}
	return fmt.Errorf("groq: %w: %v", llmdomain.ErrProviderUnreachable, err)
}
