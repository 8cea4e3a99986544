package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
)

const defaultModel = "llama3.1"

// Client talks to a local Ollama daemon via its generate endpoint.
type Client struct {
	host  string
	model string
	httpc *http.Client
}

func New(host, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		host:  strings.TrimRight(host, "/"),
		model: model,
		httpc: &http.Client{},
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) Complete(ctx context.Context, prompt string, opts llmdomain.Options) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("ollama: prompt must not be empty")
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

	body, err := json.Marshal(generateRequest{
		Model:   model,
		Prompt:  prompt,
		System:  opts.System,
		Stream:  false,
		Options: map[string]any{"temperature": 0.4},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w: %v", llmdomain.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("ollama: %w", llmdomain.ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("ollama: %w", llmdomain.ErrAuthFailed)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("ollama: %w: status %d", llmdomain.ErrProviderUnreachable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("ollama: %w: status %d", llmdomain.ErrMalformedResponse, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama: %w: %v", llmdomain.ErrMalformedResponse, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama: %w: %s", llmdomain.ErrMalformedResponse, out.Error)
	}
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("ollama: %w: empty response", llmdomain.ErrMalformedResponse)
	}
	return text, nil
}
