package cases

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ID tipe untuk Case
type CaseID string

// AnalysisType enum
type AnalysisType string

const (
	TypeCase   AnalysisType = "case"
	TypeSwot   AnalysisType = "swot"
	TypePestle AnalysisType = "pestle"
)

// ErrInvalidInput indicates a caller mistake: unknown analysis type,
// empty statement, or input over the configured limit.
var ErrInvalidInput = errors.New("invalid input")

// ParseAnalysisType normalizes a raw type string into an AnalysisType.
func ParseAnalysisType(s string) (AnalysisType, error) {
	switch AnalysisType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeCase:
		return TypeCase, nil
	case TypeSwot:
		return TypeSwot, nil
	case TypePestle:
		return TypePestle, nil
	default:
		return "", fmt.Errorf("%w: unknown analysis type %q", ErrInvalidInput, s)
	}
}

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Aggregate Root: Case. Immutable after creation except Status.
type Case struct {
	ID        CaseID       `json:"id"`
	Title     string       `json:"title"`
	Subject   string       `json:"subject,omitempty"`
	Statement string       `json:"statement"`
	Type      AnalysisType `json:"analysis_type"`
	Status    Status       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Title derives the display title from type and subject,
// e.g. "SWOT Analysis for Acme".
func Title(kind AnalysisType, subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "Untitled"
	}
	switch kind {
	case TypeSwot:
		return fmt.Sprintf("SWOT Analysis for %s", subject)
	case TypePestle:
		return fmt.Sprintf("PESTLE Analysis for %s", subject)
	default:
		return fmt.Sprintf("Case Study for %s", subject)
	}
}
