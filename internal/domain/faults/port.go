package faults

import "context"

// Repository port for the analysis fault log
type Repository interface {
	Save(ctx context.Context, f *Fault) error
	ListByCase(ctx context.Context, caseID string) ([]*Fault, error)
}
