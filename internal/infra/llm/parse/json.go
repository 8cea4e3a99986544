package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
)

// Models regularly ignore the sectioned-text instruction and answer with a
// JSON object instead. Rather than fail those, the first parse pass lifts
// the expected keys out of the object, repairing sloppy JSON (trailing
// commas, single quotes, code fences) along the way.

// jsonKeys maps each section label to the object keys a model plausibly
// uses for it.
func jsonKeys(label string) []string {
	switch label {
	case reports.PhaseFirst30:
		return []string{"0-30 days", "0-30", "30", "first_30_days"}
	case reports.PhaseNext60:
		return []string{"30-60 days", "30-60", "60", "next_60_days"}
	case reports.PhaseNext90:
		return []string{"60-90 days", "60-90", "90", "next_90_days"}
	case "Success Metrics":
		return []string{"success_metrics", "metrics"}
	default:
		return []string{strings.ToLower(label)}
	}
}

// sectionsFromJSON attempts to read raw as one JSON object holding the
// expected sections. ok=false means raw is not JSON-shaped or carried none
// of the expected keys, and the label pass should run instead.
func sectionsFromJSON(raw string, kind cases.AnalysisType) (map[string][]string, bool) {
	frag := extractObject(raw)
	if frag == "" {
		return nil, false
	}
	repaired, err := jsonrepair.RepairJSON(frag)
	if err != nil {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return nil, false
	}

	// plans sometimes arrive nested: {"plan_30_60_90": {"30": [...], ...}}
	for _, k := range []string{"plan_30_60_90", "plan", "timeline"} {
		if nested, ok := lookup(obj, k).(map[string]any); ok {
			for nk, nv := range nested {
				if _, exists := obj[nk]; !exists {
					obj[nk] = nv
				}
			}
		}
	}

	sections := make(map[string][]string)
	found := false
	for _, label := range reports.SectionLabels(kind) {
		for _, key := range jsonKeys(label) {
			v := lookup(obj, key)
			if v == nil {
				continue
			}
			items := flattenItems(v)
			if len(items) == 0 {
				continue
			}
			sections[label] = items
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}
	return sections, true
}

// extractObject returns the first brace-balanced {...} fragment, or "".
func extractObject(raw string) string {
	start := strings.Index(raw, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	// unterminated object: hand the rest to the repairer
	return raw[start:]
}

// lookup finds a key case-insensitively.
func lookup(obj map[string]any, key string) any {
	if v, ok := obj[key]; ok {
		return v
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// flattenItems reduces a JSON value to a list of display strings. Items may
// be plain strings or objects like {"name": ..., "description": ...}.
func flattenItems(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, el := range t {
			out = append(out, flattenItems(el)...)
		}
	case map[string]any:
		name, _ := lookup(t, "name").(string)
		desc, _ := lookup(t, "description").(string)
		switch {
		case name != "" && desc != "":
			out = append(out, fmt.Sprintf("%s: %s", name, desc))
		case name != "":
			out = append(out, name)
		case desc != "":
			out = append(out, desc)
		}
	}
	return out
}
