package faults

import "time"

// Fault represents a persisted record of a failed analysis attempt. Raw
// model text that could not be parsed ends up here for diagnostics, never
// as a Report row.
type Fault struct {
	ID        int64     `json:"id"`
	CaseID    string    `json:"case_id"`
	Stage     string    `json:"stage"` // provider | parse | render
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
