package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/smartconsult/consult-engine/internal/domain/cases"
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Save insert/update Case record
func (r *CaseRepository) Save(ctx context.Context, c *domain.Case) error {
	const q = `
INSERT INTO analysis_cases
(id, title, subject, statement, analysis_type, status, created_at)
VALUES (?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status);
`
	title := stringOrDash(c.Title)
	status := stringOrDash(string(c.Status))
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		c.ID, title, c.Subject, c.Statement, c.Type, status, created,
	)
	return err
}

// Get by ID
func (r *CaseRepository) Get(ctx context.Context, id domain.CaseID) (*domain.Case, error) {
	const q = `
SELECT id, title, subject, statement, analysis_type, status, created_at
FROM analysis_cases
WHERE id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, id)
	var c domain.Case
	if err := row.Scan(&c.ID, &c.Title, &c.Subject, &c.Statement, &c.Type, &c.Status, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Latest cases, newest first
func (r *CaseRepository) Latest(ctx context.Context, limit int) ([]*domain.Case, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, title, subject, statement, analysis_type, status, created_at
FROM analysis_cases
ORDER BY created_at DESC, id DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Case
	for rows.Next() {
		var c domain.Case
		if err := rows.Scan(&c.ID, &c.Title, &c.Subject, &c.Statement, &c.Type, &c.Status, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// UpdateStatus hanya update kolom status
func (r *CaseRepository) UpdateStatus(ctx context.Context, id domain.CaseID, status domain.Status) error {
	const q = `UPDATE analysis_cases SET status=? WHERE id=?;`
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}
