package reports

import (
	"context"

	"github.com/smartconsult/consult-engine/internal/domain/cases"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, id ReportID) (*Report, error)
	ListByCase(ctx context.Context, caseID cases.CaseID) ([]*Report, error)
}

// Parser port: raw model text in, structured content out. The bool is the
// incomplete flag: at least one expected section was missing and left empty.
type Parser interface {
	Parse(raw string, kind cases.AnalysisType) (StructuredContent, bool, error)
}

// Renderer port: pure function from structured content to a self-contained
// HTML document.
type Renderer interface {
	Render(c *cases.Case, content StructuredContent) ([]byte, error)
}

// ArchiveStore port (interface untuk penyimpanan dokumen report)
type ArchiveStore interface {
	Put(ctx context.Context, key string, doc []byte) (string, error)
}
