package reports

import (
	"errors"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
)

// ErrParseFailure indicates the model returned text in which none of the
// expected sections could be located at all.
var ErrParseFailure = errors.New("unparseable model output")

// ErrContentMismatch indicates an engine bug: the content tag does not match
// the owning case's analysis type.
var ErrContentMismatch = errors.New("structured content does not match analysis type")

// Timeline phase labels for case studies, fixed order.
const (
	PhaseFirst30 = "0-30 Days"
	PhaseNext60  = "30-60 Days"
	PhaseNext90  = "60-90 Days"
)

// TimelinePhase is one bucket of the 30-60-90 day plan.
type TimelinePhase struct {
	Label   string   `json:"phase_label"`
	Actions []string `json:"actions"`
}

// CaseContent is the structured payload of a case-study report.
type CaseContent struct {
	Diagnosis      string          `json:"diagnosis"`
	Timeline       []TimelinePhase `json:"timeline"`
	SuccessMetrics []string        `json:"success_metrics"`
}

// SwotContent holds the four SWOT quadrants in fixed order.
type SwotContent struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// PestleContent holds the six PESTLE categories in fixed order.
type PestleContent struct {
	Political     []string `json:"political"`
	Economic      []string `json:"economic"`
	Social        []string `json:"social"`
	Technological []string `json:"technological"`
	Legal         []string `json:"legal"`
	Environmental []string `json:"environmental"`
}

// StructuredContent is the type-tagged payload extracted from raw model
// output. Exactly one of the pointers matching Kind is set.
type StructuredContent struct {
	Kind   cases.AnalysisType `json:"kind"`
	Case   *CaseContent       `json:"case,omitempty"`
	Swot   *SwotContent       `json:"swot,omitempty"`
	Pestle *PestleContent     `json:"pestle,omitempty"`
}

// SectionLabels returns the labels the prompt requests and the parser
// segments on, in their fixed order.
func SectionLabels(kind cases.AnalysisType) []string {
	switch kind {
	case cases.TypeSwot:
		return []string{"Strengths", "Weaknesses", "Opportunities", "Threats"}
	case cases.TypePestle:
		return []string{"Political", "Economic", "Social", "Technological", "Legal", "Environmental"}
	default:
		return []string{"Diagnosis", PhaseFirst30, PhaseNext60, PhaseNext90, "Success Metrics"}
	}
}
