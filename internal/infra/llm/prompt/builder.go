package prompt

import (
	"fmt"
	"strings"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
)

// Builder emits one deterministic instruction per analysis type. The
// requested section labels are the same ones the parser segments on, so the
// two sides stay in lockstep.
type Builder struct {
	MaxInputChars int
}

var _ llmdomain.PromptBuilder = Builder{}

const defaultMaxInputChars = 8000

// Build turns the caller's texts into the instruction for the model.
func (b Builder) Build(kind cases.AnalysisType, in llmdomain.PromptInput) (string, error) {
	max := b.MaxInputChars
	if max <= 0 {
		max = defaultMaxInputChars
	}
	statement := strings.TrimSpace(in.Statement)
	if statement == "" {
		return "", fmt.Errorf("%w: statement is required", cases.ErrInvalidInput)
	}
	if len(statement) > max {
		return "", fmt.Errorf("%w: statement exceeds %d characters", cases.ErrInvalidInput, max)
	}
	subject := strings.TrimSpace(in.Subject)

	var sb strings.Builder
	switch kind {
	case cases.TypeSwot:
		if subject != "" {
			fmt.Fprintf(&sb, "Conduct a comprehensive SWOT analysis for '%s'.\n", subject)
		} else {
			sb.WriteString("Conduct a comprehensive SWOT analysis for the company or product described below.\n")
		}
		fmt.Fprintf(&sb, "Description:\n%s\n\n", statement)
	case cases.TypePestle:
		if subject != "" {
			fmt.Fprintf(&sb, "Conduct a comprehensive PESTLE analysis for the '%s' industry.\n", subject)
		} else {
			sb.WriteString("Conduct a comprehensive PESTLE analysis for the industry or market described below.\n")
		}
		fmt.Fprintf(&sb, "Scope:\n%s\n\n", statement)
	default:
		if subject != "" {
			fmt.Fprintf(&sb, "Produce a strategic case diagnosis for '%s'.\n", subject)
		} else {
			sb.WriteString("Produce a strategic case diagnosis for the organization described below.\n")
		}
		fmt.Fprintf(&sb, "Stated problem:\n%s\n\n", statement)
		sb.WriteString("The Diagnosis section must name the likely root causes. The three timeline sections form a 30-60-90 day plan with specific, actionable steps.\n\n")
	}

	labels := reports.SectionLabels(kind)
	fmt.Fprintf(&sb, "Respond with exactly these %d labeled sections, in this order:\n", len(labels))
	for _, l := range labels {
		fmt.Fprintf(&sb, "%s:\n", l)
	}
	sb.WriteString("\nUnder each label, list concise bullet points, one per line, each starting with '- '. Do not add any other sections, preamble, or closing remarks.")
	return sb.String(), nil
}

// System returns the persona message for backends that support a system role.
func (Builder) System(kind cases.AnalysisType) string {
	switch kind {
	case cases.TypePestle:
		return "You are a senior geopolitical and economic analyst from a world-renowned think tank."
	default:
		return "You are a world-class senior management consultant AI."
	}
}
