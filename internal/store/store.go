// Package store keeps a history of pipeline runs.
package store

import (
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = eris.New("store: run not found")

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID           string     `json:"id"`
	Mode         string     `json:"mode"`
	Status       RunStatus  `json:"status"`
	RawRows      int        `json:"raw_rows"`
	PreparedRows int        `json:"prepared_rows"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
