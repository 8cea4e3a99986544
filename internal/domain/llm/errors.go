package llm

import "errors"

// Failure taxonomy shared by every backend. Each backend maps its own error
// surface onto these so the caller can decide retry vs abort vs surface.
var (
	// ErrProviderUnavailable: provider disabled, unknown, or missing
	// credentials. Configuration problem; never retried.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderUnreachable: network/connection failure or timeout.
	ErrProviderUnreachable = errors.New("provider unreachable")

	// ErrAuthFailed: backend rejected the credentials.
	ErrAuthFailed = errors.New("provider authentication failed")

	// ErrRateLimited: backend returned a quota/limit error (HTTP 429 or
	// similar). Retryable after backoff, by the caller.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrMalformedResponse: backend answered but returned no usable text.
	ErrMalformedResponse = errors.New("provider returned no usable text")
)
