package llm

import (
	"context"
	"time"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
)

// ProviderID identifies an interchangeable LLM backend.
type ProviderID string

const (
	ProviderOllama ProviderID = "ollama"
	ProviderGemini ProviderID = "gemini"
	ProviderGroq   ProviderID = "groq"
)

// Options per call. Model overrides the configured default; Timeout bounds
// the outbound request.
type Options struct {
	Model   string
	System  string
	Timeout time.Duration
}

// Client is the uniform contract over all backends: one synchronous text
// completion from a single instruction. Implementations must be safe for
// concurrent use.
type Client interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Selector resolves a provider id to a configured client. Disabled or
// unconfigured providers fail with ErrProviderUnavailable, never a silent
// fallback to another backend.
type Selector interface {
	Select(id ProviderID) (Client, error)
}

// PromptInput carries the caller-supplied texts for one analysis.
type PromptInput struct {
	Subject   string
	Statement string
}

// PromptBuilder port: deterministic instruction text per analysis type.
type PromptBuilder interface {
	Build(kind cases.AnalysisType, in PromptInput) (string, error)
	System(kind cases.AnalysisType) string
}
