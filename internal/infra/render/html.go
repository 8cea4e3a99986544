package render

import (
	"bytes"
	"html/template"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
)

// HTML renders structured report content into a self-contained document.
// Pure: no network or storage access.
type HTML struct{}

var _ reports.Renderer = HTML{}

type page struct {
	Title   string
	Kind    cases.AnalysisType
	Content reports.StructuredContent
}

func (HTML) Render(c *cases.Case, content reports.StructuredContent) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTmpl.Execute(&buf, page{
		Title:   c.Title,
		Kind:    c.Type,
		Content: content,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pageTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en"><head><meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,Helvetica,Arial,sans-serif;line-height:1.6;color:#333;max-width:900px;margin:2rem auto;padding:0 1rem;background:#f9f9f9}
  h1{border-bottom:2px solid #eee;padding-bottom:.5rem}
  .section{background:#fff;border:1px solid #ddd;border-radius:8px;padding:1.5rem 2rem;margin-bottom:2rem}
  .grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(300px,1fr));gap:1.5rem}
  .card{padding:1.5rem;background:#fafafa;border:1px solid #eee;border-radius:8px}
  .card h4{margin-top:0;color:#007bff;border-bottom:1px solid #ddd;padding-bottom:.5rem}
  .empty{color:#999;font-style:italic}
  ul{padding-left:20px}
  li{margin-bottom:.5rem}
</style>
</head><body>
<h1>{{.Title}}</h1>
{{- define "list"}}
<ul>
{{- range .}}
  <li>{{.}}</li>
{{- else}}
  <li class="empty">No specific items identified.</li>
{{- end}}
</ul>
{{- end}}
{{- if .Content.Case}}
<div class="section"><h2>Diagnosis</h2><p>{{.Content.Case.Diagnosis}}</p></div>
<div class="section"><h2>30-60-90 Day Plan</h2>
  <div class="grid">
  {{- range .Content.Case.Timeline}}
    <div class="card"><h4>{{.Label}}</h4>{{template "list" .Actions}}</div>
  {{- end}}
  </div>
</div>
<div class="section"><h2>Metrics for Success</h2>{{template "list" .Content.Case.SuccessMetrics}}</div>
{{- else if .Content.Swot}}
<div class="section grid">
  <div class="card"><h4>Strengths</h4>{{template "list" .Content.Swot.Strengths}}</div>
  <div class="card"><h4>Weaknesses</h4>{{template "list" .Content.Swot.Weaknesses}}</div>
  <div class="card"><h4>Opportunities</h4>{{template "list" .Content.Swot.Opportunities}}</div>
  <div class="card"><h4>Threats</h4>{{template "list" .Content.Swot.Threats}}</div>
</div>
{{- else if .Content.Pestle}}
<div class="section grid">
  <div class="card"><h4>Political</h4>{{template "list" .Content.Pestle.Political}}</div>
  <div class="card"><h4>Economic</h4>{{template "list" .Content.Pestle.Economic}}</div>
  <div class="card"><h4>Social</h4>{{template "list" .Content.Pestle.Social}}</div>
  <div class="card"><h4>Technological</h4>{{template "list" .Content.Pestle.Technological}}</div>
  <div class="card"><h4>Legal</h4>{{template "list" .Content.Pestle.Legal}}</div>
  <div class="card"><h4>Environmental</h4>{{template "list" .Content.Pestle.Environmental}}</div>
</div>
{{- end}}
</body></html>
`))
