package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/smartconsult/consult-engine/internal/domain/faults"
)

type FaultRepository struct {
	db *sql.DB
}

func NewFaultRepository(db *sql.DB) *FaultRepository { return &FaultRepository{db: db} }

// Save inserts a fault log record
func (r *FaultRepository) Save(ctx context.Context, f *domain.Fault) error {
	const q = `
INSERT INTO analysis_faults
  (case_id, stage, category, message, detail, created_at)
VALUES (?,?,?,?,?,?)
`
	caseID := stringOrDash(f.CaseID)
	stage := stringOrDash(f.Stage)
	category := stringOrDash(f.Category)
	msg := f.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, caseID, stage, category, msg, f.Detail, created)
	return err
}

// ListByCase returns a case's fault entries, newest first
func (r *FaultRepository) ListByCase(ctx context.Context, caseID string) ([]*domain.Fault, error) {
	const q = `
SELECT id, case_id, stage, category, message, detail, created_at
FROM analysis_faults
WHERE case_id=?
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Fault
	for rows.Next() {
		var f domain.Fault
		if err := rows.Scan(&f.ID, &f.CaseID, &f.Stage, &f.Category, &f.Message, &f.Detail, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
