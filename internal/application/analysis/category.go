package analysis

import (
	"errors"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
)

// categorize names the failure taxonomy bucket an error falls into, for the
// fault log and for metrics.
func categorize(err error) string {
	switch {
	case errors.Is(err, cases.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, llmdomain.ErrProviderUnavailable):
		return "provider_unavailable"
	case errors.Is(err, llmdomain.ErrAuthFailed):
		return "provider_auth_failed"
	case errors.Is(err, llmdomain.ErrRateLimited):
		return "provider_rate_limited"
	case errors.Is(err, llmdomain.ErrMalformedResponse):
		return "provider_malformed_response"
	case errors.Is(err, llmdomain.ErrProviderUnreachable):
		return "provider_unreachable"
	case errors.Is(err, reports.ErrParseFailure):
		return "parse_failure"
	default:
		return "internal"
	}
}
