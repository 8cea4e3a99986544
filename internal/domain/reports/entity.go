package reports

import (
	"time"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
)

// ID tipe untuk Report
type ReportID string

// Aggregate Root: Report. Append-only; one row per successful analysis
// attempt against a Case. RawOutput keeps the unparsed model text for audit.
type Report struct {
	ID         ReportID          `json:"id"`
	CaseID     cases.CaseID      `json:"case_id"`
	Provider   string            `json:"provider"`
	RawOutput  string            `json:"raw_output"`
	Content    StructuredContent `json:"structured_content"`
	Incomplete bool              `json:"incomplete"`
	ReportURL  string            `json:"report_url,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}
