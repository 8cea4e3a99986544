package llm

import (
	"context"
	"fmt"

	"github.com/smartconsult/consult-engine/internal/config"
	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
	"github.com/smartconsult/consult-engine/internal/infra/llm/gemini"
	"github.com/smartconsult/consult-engine/internal/infra/llm/groq"
	"github.com/smartconsult/consult-engine/internal/infra/llm/ollama"
)

const defaultOllamaHost = "http://127.0.0.1:11434"

// Registry holds one client per enabled, fully configured provider. It is
// built once at startup and read-only afterwards; selection is explicit per
// request with no fallback between backends.
type Registry struct {
	clients map[llmdomain.ProviderID]llmdomain.Client
}

var _ llmdomain.Selector = (*Registry)(nil)

// NewRegistry builds clients from the provider section of the config.
// Disabled entries and cloud entries without an API key are skipped, so
// selecting them later fails with ErrProviderUnavailable instead of making
// a doomed network call.
func NewRegistry(ctx context.Context, providers map[string]config.Provider) (*Registry, error) {
	r := &Registry{clients: make(map[llmdomain.ProviderID]llmdomain.Client)}

	for name, pc := range providers {
		if !pc.Enabled {
			continue
		}
		switch llmdomain.ProviderID(name) {
		case llmdomain.ProviderOllama:
			host := pc.Endpoint
			if host == "" {
				host = defaultOllamaHost
			}
			r.clients[llmdomain.ProviderOllama] = ollama.New(host, pc.Model)
		case llmdomain.ProviderGemini:
			if pc.APIKey == "" {
				continue
			}
			cli, err := gemini.New(ctx, pc.APIKey, pc.Model)
			if err != nil {
				return nil, err
			}
			r.clients[llmdomain.ProviderGemini] = cli
		case llmdomain.ProviderGroq:
			if pc.APIKey == "" {
				continue
			}
			r.clients[llmdomain.ProviderGroq] = groq.New(pc.APIKey, pc.Endpoint, pc.Model)
		default:
			return nil, fmt.Errorf("unknown provider in config: %s", name)
		}
	}
	return r, nil
}

// Select resolves a provider id to its client.
func (r *Registry) Select(id llmdomain.ProviderID) (llmdomain.Client, error) {
	cli, ok := r.clients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", llmdomain.ErrProviderUnavailable, id)
	}
	return cli, nil
}

// Available lists the selectable provider ids.
func (r *Registry) Available() []llmdomain.ProviderID {
	out := make([]llmdomain.ProviderID, 0, len(r.clients))
	for id := range r.clients {
		out = append(out, id)
	}
	return out
}
