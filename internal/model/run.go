package model

import "time"

// RunStatus represents the current state of an analysis run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is the caller-side persistence record for one analysis. The pipeline
// itself is stateless; runs exist only so the CLI and server can list and
// replay past results.
type Run struct {
	ID           string          `json:"id"`
	Filename     string          `json:"filename"`
	ContractType string          `json:"contract_type,omitempty"`
	Status       RunStatus       `json:"status"`
	Report       *AnalysisReport `json:"report,omitempty"`
	Error        string          `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
