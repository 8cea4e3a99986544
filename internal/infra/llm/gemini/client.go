package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	genai "google.golang.org/genai"

	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
)

const defaultModel = "gemini-1.5-flash"

// Client wraps the official GenAI SDK for the Gemini API backend.
type Client struct {
	cli   *genai.Client
	model string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{cli: cli, model: model}, nil
}

func (c *Client) Complete(ctx context.Context, prompt string, opts llmdomain.Options) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("gemini: prompt must not be empty")
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

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	}
	if opts.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: opts.System}},
		}
	}

	result, err := c.cli.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", mapError(err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w: no text in candidates", llmdomain.ErrMalformedResponse)
	}
	return text, nil
}

// mapError converges GenAI SDK errors onto the shared failure taxonomy.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("gemini: %w: %s", llmdomain.ErrAuthFailed, apiErr.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("gemini: %w", llmdomain.ErrRateLimited)
		default:
			if apiErr.Code >= 500 {
				return fmt.Errorf("gemini: %w: status %d", llmdomain.ErrProviderUnreachable, apiErr.Code)
			}
			return fmt.Errorf("gemini: %w: %s", llmdomain.ErrMalformedResponse, apiErr.Message)
		}
	}
	return fmt.Errorf("gemini: %w: %v", llmdomain.ErrProviderUnreachable, err)
}
