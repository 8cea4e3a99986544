package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
)

func TestRenderSwot(t *testing.T) {
	c := &cases.Case{Title: "SWOT Analysis for Acme", Type: cases.TypeSwot}
	content := reports.StructuredContent{
		Kind: cases.TypeSwot,
		Swot: &reports.SwotContent{
			Strengths:     []string{"Strong brand"},
			Weaknesses:    []string{},
			Opportunities: []string{"New markets"},
			Threats:       []string{"Rivals"},
		},
	}

	doc, err := HTML{}.Render(c, content)
	require.NoError(t, err)
	out := string(doc)
	assert.Contains(t, out, "<title>SWOT Analysis for Acme</title>")
	assert.Contains(t, out, "Strong brand")
	// empty quadrant renders a placeholder, not an empty list
	assert.Contains(t, out, "No specific items identified.")
}

func TestRenderCaseTimeline(t *testing.T) {
	c := &cases.Case{Title: "Case Study for Acme", Type: cases.TypeCase}
	content := reports.StructuredContent{
		Kind: cases.TypeCase,
		Case: &reports.CaseContent{
			Diagnosis: "Churn is driven by onboarding friction.",
			Timeline: []reports.TimelinePhase{
				{Label: reports.PhaseFirst30, Actions: []string{"Instrument the funnel"}},
				{Label: reports.PhaseNext60, Actions: []string{"Rebuild billing"}},
				{Label: reports.PhaseNext90, Actions: []string{"Relaunch"}},
			},
			SuccessMetrics: []string{"Activation above 60%"},
		},
	}

	doc, err := HTML{}.Render(c, content)
	require.NoError(t, err)
	out := string(doc)
	assert.Contains(t, out, "Churn is driven by onboarding friction.")
	assert.Contains(t, out, reports.PhaseFirst30)
	assert.Contains(t, out, "Relaunch")
	assert.Contains(t, out, "Activation above 60%")
}

func TestRenderEscapesModelText(t *testing.T) {
	c := &cases.Case{Title: "SWOT Analysis for Acme", Type: cases.TypeSwot}
	content := reports.StructuredContent{
		Kind: cases.TypeSwot,
		Swot: &reports.SwotContent{
			Strengths: []string{`<script>alert("x")</script>`},
		},
	}

	doc, err := HTML{}.Render(c, content)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "<script>alert")
}
