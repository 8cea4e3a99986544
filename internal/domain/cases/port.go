package cases

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, c *Case) error
	Get(ctx context.Context, id CaseID) (*Case, error)
	Latest(ctx context.Context, limit int) ([]*Case, error)
	UpdateStatus(ctx context.Context, id CaseID, status Status) error
}
