package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartconsult/consult-engine/internal/application/analysis"
	"github.com/smartconsult/consult-engine/internal/domain/cases"
	"github.com/smartconsult/consult-engine/internal/domain/faults"
	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
)

type memCaseRepo struct {
	rows map[cases.CaseID]*cases.Case
}

func (m *memCaseRepo) Save(_ context.Context, c *cases.Case) error {
	m.rows[c.ID] = c
	return nil
}

func (m *memCaseRepo) Get(_ context.Context, id cases.CaseID) (*cases.Case, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (m *memCaseRepo) Latest(_ context.Context, limit int) ([]*cases.Case, error) {
	out := make([]*cases.Case, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCaseRepo) UpdateStatus(_ context.Context, id cases.CaseID, status cases.Status) error {
	if c, ok := m.rows[id]; ok {
		c.Status = status
	}
	return nil
}

type memReportRepo struct {
	rows map[reports.ReportID]*reports.Report
}

func (m *memReportRepo) Save(_ context.Context, r *reports.Report) error {
	m.rows[r.ID] = r
	return nil
}

func (m *memReportRepo) Get(_ context.Context, id reports.ReportID) (*reports.Report, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *memReportRepo) ListByCase(_ context.Context, caseID cases.CaseID) ([]*reports.Report, error) {
	var out []*reports.Report
	for _, r := range m.rows {
		if r.CaseID == caseID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memFaultRepo struct{ rows []*faults.Fault }

func (m *memFaultRepo) Save(_ context.Context, f *faults.Fault) error {
	m.rows = append(m.rows, f)
	return nil
}

func (m *memFaultRepo) ListByCase(_ context.Context, caseID string) ([]*faults.Fault, error) {
	return m.rows, nil
}

type stubClient struct {
	out string
	err error
}

func (s stubClient) Complete(context.Context, string, llmdomain.Options) (string, error) {
	return s.out, s.err
}

type stubSelector struct {
	client llmdomain.Client
	err    error
}

func (s stubSelector) Select(llmdomain.ProviderID) (llmdomain.Client, error) {
	return s.client, s.err
}

type stubPrompter struct{}

func (stubPrompter) Build(_ cases.AnalysisType, in llmdomain.PromptInput) (string, error) {
	if strings.TrimSpace(in.Statement) == "" {
		return "", fmt.Errorf("%w: statement is required", cases.ErrInvalidInput)
	}
	return "instruction", nil
}

func (stubPrompter) System(cases.AnalysisType) string { return "persona" }

type stubParser struct {
	content reports.StructuredContent
	err     error
}

func (s stubParser) Parse(_ string, kind cases.AnalysisType) (reports.StructuredContent, bool, error) {
	if s.err != nil {
		return reports.StructuredContent{}, false, s.err
	}
	c := s.content
	c.Kind = kind
	return c, false, nil
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

func newTestHandler(sel llmdomain.Selector, parser reports.Parser) (http.Handler, *memCaseRepo, *memReportRepo) {
	caseRepo := &memCaseRepo{rows: make(map[cases.CaseID]*cases.Case)}
	reportRepo := &memReportRepo{rows: make(map[reports.ReportID]*reports.Report)}
	svc := &analysis.Service{
		Cases:       caseRepo,
		Reports:     reportRepo,
		Faults:      &memFaultRepo{},
		Providers:   sel,
		Prompter:    stubPrompter{},
		Parser:      parser,
		Clock:       fixedClock{},
		CallTimeout: time.Minute,
	}
	return NewRouter(svc), caseRepo, reportRepo
}

func swotParser() stubParser {
	return stubParser{content: reports.StructuredContent{
		Swot: &reports.SwotContent{
			Strengths:     []string{"a"},
			Weaknesses:    []string{"b"},
			Opportunities: []string{"c"},
			Threats:       []string{"d"},
		},
	}}
}

func postAnalysis(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/analyses", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAnalysisEndpoint(t *testing.T) {
	h, caseRepo, reportRepo := newTestHandler(
		stubSelector{client: stubClient{out: "Strengths: a"}},
		swotParser(),
	)

	rec := postAnalysis(t, h, `{"analysis_type":"swot","provider":"groq","subject":"Acme","statement":"Revenue is flat."}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res analysis.CreateAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.CaseID)
	assert.NotEmpty(t, res.ReportID)
	assert.Len(t, caseRepo.rows, 1)
	assert.Len(t, reportRepo.rows, 1)
}

func TestCreateAnalysisUnknownTypeIs400(t *testing.T) {
	h, _, _ := newTestHandler(stubSelector{client: stubClient{out: "x"}}, swotParser())

	rec := postAnalysis(t, h, `{"analysis_type":"competitive","provider":"groq","statement":"s"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAnalysisUnavailableProviderIs503(t *testing.T) {
	h, caseRepo, _ := newTestHandler(
		stubSelector{err: fmt.Errorf("%w: gemini", llmdomain.ErrProviderUnavailable)},
		swotParser(),
	)

	rec := postAnalysis(t, h, `{"analysis_type":"swot","provider":"gemini","statement":"s"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Empty(t, caseRepo.rows)
}

func TestCreateAnalysisProviderErrorIs502(t *testing.T) {
	h, _, _ := newTestHandler(
		stubSelector{client: stubClient{err: fmt.Errorf("%w: timeout", llmdomain.ErrProviderUnreachable)}},
		swotParser(),
	)

	rec := postAnalysis(t, h, `{"analysis_type":"swot","provider":"ollama","statement":"s"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCreateAnalysisRateLimitedIs429(t *testing.T) {
	h, _, _ := newTestHandler(
		stubSelector{client: stubClient{err: fmt.Errorf("%w: quota", llmdomain.ErrRateLimited)}},
		swotParser(),
	)

	rec := postAnalysis(t, h, `{"analysis_type":"swot","provider":"groq","statement":"s"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestCreateAnalysisBadJSONIs400(t *testing.T) {
	h, _, _ := newTestHandler(stubSelector{client: stubClient{out: "x"}}, swotParser())

	rec := postAnalysis(t, h, `{"analysis_type":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCaseNotFoundIs404(t *testing.T) {
	h, _, _ := newTestHandler(stubSelector{}, swotParser())

	req := httptest.NewRequest(http.MethodGet, "/v1/cases/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetReportAfterCreate(t *testing.T) {
	h, _, _ := newTestHandler(
		stubSelector{client: stubClient{out: "Strengths: a"}},
		swotParser(),
	)

	rec := postAnalysis(t, h, `{"analysis_type":"swot","provider":"groq","subject":"Acme","statement":"s"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var res analysis.CreateAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/"+res.ReportID, nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)

	var rep reports.Report
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &rep))
	assert.Equal(t, res.CaseID, string(rep.CaseID))
	assert.Equal(t, "groq", rep.Provider)

	req = httptest.NewRequest(http.MethodGet, "/v1/cases/"+res.CaseID+"/reports", nil)
	rec3 := httptest.NewRecorder()
	h.ServeHTTP(rec3, req)
	require.Equal(t, http.StatusOK, rec3.Code)
	var list []*reports.Report
	require.NoError(t, json.Unmarshal(rec3.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}
