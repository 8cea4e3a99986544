package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	casedomain "github.com/smartconsult/consult-engine/internal/domain/cases"
	domain "github.com/smartconsult/consult-engine/internal/domain/reports"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save insert/update Report record. Structured content is stored as JSON;
// content_json column requires valid JSON. The case_id foreign key cascades
// on case deletion, so orphan reports cannot exist.
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO analysis_reports
(id, case_id, provider, raw_output, content_json, incomplete, report_url, created_at)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 report_url=VALUES(report_url);
`
	content, err := json.Marshal(rep.Content)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		rep.ID, rep.CaseID, rep.Provider, rep.RawOutput, string(content),
		rep.Incomplete, rep.ReportURL, rep.CreatedAt,
	)
	return err
}

// Get by ID
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	const q = `
SELECT id, case_id, provider, raw_output, content_json, incomplete, report_url, created_at
FROM analysis_reports
WHERE id=? LIMIT 1;
`
	return scanReport(r.db.QueryRowContext(ctx, q, id))
}

// ListByCase returns a case's reports in insertion order
func (r *ReportRepository) ListByCase(ctx context.Context, caseID casedomain.CaseID) ([]*domain.Report, error) {
	const q = `
SELECT id, case_id, provider, raw_output, content_json, incomplete, report_url, created_at
FROM analysis_reports
WHERE case_id=?
ORDER BY created_at ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var rep domain.Report
	var content string
	if err := row.Scan(&rep.ID, &rep.CaseID, &rep.Provider, &rep.RawOutput, &content,
		&rep.Incomplete, &rep.ReportURL, &rep.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(content), &rep.Content); err != nil {
		return nil, err
	}
	return &rep, nil
}
