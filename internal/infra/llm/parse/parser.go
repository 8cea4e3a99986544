package parse

import (
	"fmt"
	"strings"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
)

// Parser turns free-form model output into typed structured content. It is
// lenient about format drift: models answer with the requested labeled
// sections, with markdown dressing around the labels, or with a JSON object
// despite being told not to. All three shapes are accepted.
type Parser struct{}

var _ reports.Parser = Parser{}

// Parse segments raw into the sections expected for kind. A missing section
// becomes an empty slice and flips the incomplete flag; only when no section
// can be located at all does the parse fail outright.
func (Parser) Parse(raw string, kind cases.AnalysisType) (reports.StructuredContent, bool, error) {
	labels := reports.SectionLabels(kind)

	sections, ok := sectionsFromJSON(raw, kind)
	if !ok {
		sections, ok = sectionsFromLabels(raw, labels)
	}
	if !ok {
		return reports.StructuredContent{}, false, fmt.Errorf("%w: no expected section found", reports.ErrParseFailure)
	}

	incomplete := false
	for _, l := range labels {
		if len(sections[l]) == 0 {
			incomplete = true
			break
		}
	}
	return assembleContent(kind, sections), incomplete, nil
}

// sectionsFromLabels scans line by line, switching sections whenever a line
// matches one of the expected labels. Content on the label line after the
// colon is kept ("Strengths: Strong brand"). Returns ok=false when no label
// matched anywhere.
func sectionsFromLabels(raw string, labels []string) (map[string][]string, bool) {
	sections := make(map[string][]string, len(labels))
	current := ""
	matched := false

	for _, line := range strings.Split(raw, "\n") {
		if label, rest, ok := matchLabel(line, labels); ok {
			current = label
			matched = true
			if item := cleanItem(rest); item != "" {
				sections[label] = append(sections[label], item)
			}
			continue
		}
		if current == "" {
			continue
		}
		if item := cleanItem(line); item != "" {
			sections[current] = append(sections[current], item)
		}
	}
	return sections, matched
}

// matchLabel reports whether line is one of the expected section headers,
// tolerating markdown emphasis, heading markers, and trailing punctuation.
// The remainder after a colon is returned as inline content.
func matchLabel(line string, labels []string) (string, string, bool) {
	head, rest := line, ""
	if i := strings.Index(line, ":"); i >= 0 {
		head, rest = line[:i], line[i+1:]
	}
	norm := normalizeLabel(head)
	if norm == "" {
		return "", "", false
	}
	for _, l := range labels {
		if strings.EqualFold(norm, normalizeLabel(l)) {
			return l, rest, true
		}
	}
	return "", "", false
}

// normalizeLabel strips markdown noise so "**Strengths:**", "## Strengths"
// and "Strengths" all compare equal.
func normalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "#>")
	s = strings.Trim(s, " \t*_:.-–—")
	// numbered headers: "1. Strengths"
	s = strings.TrimLeft(s, "0123456789")
	s = strings.Trim(s, " \t*_:.)")
	return s
}

// cleanItem strips bullet markers and formatting artifacts from one line.
func cleanItem(line string) string {
	s := strings.TrimSpace(line)
	for _, marker := range []string{"- ", "* ", "• ", "+ "} {
		if strings.HasPrefix(s, marker) {
			s = s[len(marker):]
			break
		}
	}
	// numbered bullets: "1. text" / "1) text"
	trimmed := strings.TrimLeft(s, "0123456789")
	if trimmed != s && len(trimmed) > 1 && (trimmed[0] == '.' || trimmed[0] == ')') {
		s = trimmed[1:]
	}
	s = strings.Trim(s, " \t")
	s = strings.Trim(s, "*_`")
	s = strings.TrimSpace(s)
	if s == "-" || s == "*" {
		return ""
	}
	return s
}

// assembleContent shapes the per-label line lists into the typed schema for
// the analysis type. Missing keys stay as empty (non-nil) slices.
func assembleContent(kind cases.AnalysisType, sections map[string][]string) reports.StructuredContent {
	get := func(label string) []string {
		if v := sections[label]; v != nil {
			return v
		}
		return []string{}
	}

	switch kind {
	case cases.TypeSwot:
		return reports.StructuredContent{
			Kind: kind,
			Swot: &reports.SwotContent{
				Strengths:     get("Strengths"),
				Weaknesses:    get("Weaknesses"),
				Opportunities: get("Opportunities"),
				Threats:       get("Threats"),
			},
		}
	case cases.TypePestle:
		return reports.StructuredContent{
			Kind: kind,
			Pestle: &reports.PestleContent{
				Political:     get("Political"),
				Economic:      get("Economic"),
				Social:        get("Social"),
				Technological: get("Technological"),
				Legal:         get("Legal"),
				Environmental: get("Environmental"),
			},
		}
	default:
		return reports.StructuredContent{
			Kind: kind,
			Case: &reports.CaseContent{
				Diagnosis: strings.Join(get("Diagnosis"), "\n"),
				Timeline: []reports.TimelinePhase{
					{Label: reports.PhaseFirst30, Actions: get(reports.PhaseFirst30)},
					{Label: reports.PhaseNext60, Actions: get(reports.PhaseNext60)},
					{Label: reports.PhaseNext90, Actions: get(reports.PhaseNext90)},
				},
				SuccessMetrics: get("Success Metrics"),
			},
		}
	}
}
