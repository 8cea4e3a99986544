package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/smartconsult/consult-engine/internal/application"
	"github.com/smartconsult/consult-engine/internal/domain/cases"
	"github.com/smartconsult/consult-engine/internal/domain/faults"
	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
	"github.com/smartconsult/consult-engine/internal/domain/reports"
)

// Service implements the analysis use-cases: one request builds a prompt,
// executes it against the chosen provider, parses the output into typed
// content, and persists the result. Requests are independent of each other;
// the Service is safe for concurrent use.
type Service struct {
	Cases     cases.Repository
	Reports   reports.Repository
	Faults    faults.Repository
	Providers llmdomain.Selector
	Prompter  llmdomain.PromptBuilder
	Parser    reports.Parser
	Renderer  reports.Renderer     // optional
	Archive   reports.ArchiveStore // optional
	Clock     application.Clock

	// CallTimeout bounds each outbound provider call.
	CallTimeout time.Duration
}

// Command for one analysis request.
type CreateAnalysisCommand struct {
	Type      string
	Provider  string
	Subject   string
	Statement string
	Model     string
}

type CreateAnalysisResult struct {
	CaseID     string                    `json:"case_id"`
	ReportID   string                    `json:"report_id"`
	Content    reports.StructuredContent `json:"structured_content"`
	Incomplete bool                      `json:"incomplete"`
	ReportURL  string                    `json:"report_url,omitempty"`
}

// CreateAnalysis runs the full pipeline: build → complete → parse →
// assemble → persist. Strictly sequential within one request.
//
// The Case row is created only after the provider is resolved, so selecting
// a disabled or unknown provider leaves no orphan Case. Failures after that
// point (provider call, parse) leave the Case with status failed, zero
// Reports, and a fault log entry; no Report row is ever written for a
// failed attempt, which makes retries safe.
func (s *Service) CreateAnalysis(ctx context.Context, cmd CreateAnalysisCommand) (CreateAnalysisResult, error) {
	kind, err := cases.ParseAnalysisType(cmd.Type)
	if err != nil {
		return CreateAnalysisResult{}, err
	}

	instruction, err := s.Prompter.Build(kind, llmdomain.PromptInput{
		Subject:   cmd.Subject,
		Statement: cmd.Statement,
	})
	if err != nil {
		return CreateAnalysisResult{}, err
	}

	provider := llmdomain.ProviderID(cmd.Provider)
	client, err := s.Providers.Select(provider)
	if err != nil {
		return CreateAnalysisResult{}, err
	}

	now := s.Clock.Now()
	c := &cases.Case{
		ID:        cases.CaseID(uuid.New().String()),
		Title:     cases.Title(kind, cmd.Subject),
		Subject:   cmd.Subject,
		Statement: cmd.Statement,
		Type:      kind,
		Status:    cases.StatusPending,
		CreatedAt: now,
	}
	if err := s.Cases.Save(ctx, c); err != nil {
		return CreateAnalysisResult{}, err
	}

	raw, err := client.Complete(ctx, instruction, llmdomain.Options{
		Model:   cmd.Model,
		System:  s.Prompter.System(kind),
		Timeout: s.CallTimeout,
	})
	if err != nil {
		s.recordFault(c.ID, "provider", err, "")
		_ = s.Cases.UpdateStatus(context.Background(), c.ID, cases.StatusFailed)
		return CreateAnalysisResult{CaseID: string(c.ID)}, err
	}

	content, incomplete, err := s.Parser.Parse(raw, kind)
	if err != nil {
		// the raw text is kept in the fault log for diagnostics, never
		// stored as a Report
		s.recordFault(c.ID, "parse", err, raw)
		_ = s.Cases.UpdateStatus(context.Background(), c.ID, cases.StatusFailed)
		return CreateAnalysisResult{CaseID: string(c.ID)}, err
	}

	rep, err := s.Assemble(c, provider, content, raw, incomplete)
	if err != nil {
		return CreateAnalysisResult{CaseID: string(c.ID)}, err
	}
	if err := s.Reports.Save(ctx, rep); err != nil {
		return CreateAnalysisResult{CaseID: string(c.ID)}, err
	}
	_ = s.Cases.UpdateStatus(ctx, c.ID, cases.StatusCompleted)

	// rendering and archival are best effort: the Report row already exists
	if url := s.renderAndArchive(ctx, c, rep); url != "" {
		rep.ReportURL = url
		if err := s.Reports.Save(ctx, rep); err != nil {
			log.Printf("report url update failed: case=%s report=%s err=%v", c.ID, rep.ID, err)
		}
	}

	return CreateAnalysisResult{
		CaseID:     string(c.ID),
		ReportID:   string(rep.ID),
		Content:    rep.Content,
		Incomplete: rep.Incomplete,
		ReportURL:  rep.ReportURL,
	}, nil
}

// Assemble merges parsed content with metadata into the canonical Report.
// The content tag must match the case's analysis type; a mismatch means an
// engine bug, not a caller mistake.
func (s *Service) Assemble(c *cases.Case, provider llmdomain.ProviderID, content reports.StructuredContent, raw string, incomplete bool) (*reports.Report, error) {
	if content.Kind != c.Type {
		return nil, fmt.Errorf("%w: case=%s content=%s", reports.ErrContentMismatch, c.Type, content.Kind)
	}
	return &reports.Report{
		ID:         reports.ReportID(uuid.New().String()),
		CaseID:     c.ID,
		Provider:   string(provider),
		RawOutput:  raw,
		Content:    content,
		Incomplete: incomplete,
		CreatedAt:  s.Clock.Now(),
	}, nil
}

func (s *Service) renderAndArchive(ctx context.Context, c *cases.Case, rep *reports.Report) string {
	if s.Renderer == nil || s.Archive == nil {
		return ""
	}
	doc, err := s.Renderer.Render(c, rep.Content)
	if err != nil {
		s.recordFault(c.ID, "render", err, "")
		return ""
	}
	key := fmt.Sprintf("%s/report_%s.html", c.ID, rep.ID)
	url, err := s.Archive.Put(ctx, key, doc)
	if err != nil {
		s.recordFault(c.ID, "render", err, "")
		return ""
	}
	return url
}

func (s *Service) recordFault(caseID cases.CaseID, stage string, cause error, detail string) {
	if s.Faults == nil {
		return
	}
	f := &faults.Fault{
		CaseID:    string(caseID),
		Stage:     stage,
		Category:  categorize(cause),
		Message:   cause.Error(),
		Detail:    detail,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Faults.Save(context.Background(), f); err != nil {
		log.Printf("fault log write failed: case=%s stage=%s err=%v", caseID, stage, err)
	}
}

//
// ==== QUERIES ====
//

func (s *Service) LatestCases(ctx context.Context, limit int) ([]*cases.Case, error) {
	return s.Cases.Latest(ctx, limit)
}

func (s *Service) GetCase(ctx context.Context, id cases.CaseID) (*cases.Case, error) {
	return s.Cases.Get(ctx, id)
}

func (s *Service) GetReport(ctx context.Context, id reports.ReportID) (*reports.Report, error) {
	return s.Reports.Get(ctx, id)
}

func (s *Service) ListReportsForCase(ctx context.Context, id cases.CaseID) ([]*reports.Report, error) {
	return s.Reports.ListByCase(ctx, id)
}

func (s *Service) ListFaultsForCase(ctx context.Context, id cases.CaseID) ([]*faults.Fault, error) {
	if s.Faults == nil {
		return nil, nil
	}
	return s.Faults.ListByCase(ctx, string(id))
}
