// Package jobs implements the in-memory job registry. A job tracks one
// end-to-end pipeline execution for one submitted document; entries are
// retained for the life of the process since blob storage holds the
// durable artifacts.
package jobs

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/artifacts"
)

// Status is the lifecycle state of a job. Transitions are monotonic:
// processing moves to exactly one of completed or failed and never reverses.
type Status string

// Job lifecycle states.
const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is the registry's record of one pipeline execution. The orchestrator
// task owning the job is its only writer; all other access goes through
// registry snapshots.
type Job struct {
	ID           uuid.UUID                  `json:"id"`
	Status       Status                     `json:"status"`
	SourceRef    string                     `json:"source_ref"`
	StageOutputs map[artifacts.Stage]string `json:"stage_outputs"`
	Error        string                     `json:"error,omitempty"`
	Reused       bool                       `json:"reused,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	CompletedAt  *time.Time                 `json:"completed_at,omitempty"`
}

// StageOutput returns the recorded output for a stage, and whether it exists.
func (j *Job) StageOutput(stage artifacts.Stage) (string, bool) {
	v, ok := j.StageOutputs[stage]
	return v, ok
}

func (j *Job) snapshot() Job {
	copied := *j
	copied.StageOutputs = maps.Clone(j.StageOutputs)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		copied.CompletedAt = &t
	}
	return copied
}
