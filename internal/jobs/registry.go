package jobs

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/artifacts"
)

// Registry is the concurrency-safe in-memory job store. Inserts and
// per-job mutations take the write lock; status polls take the read lock
// and return defensive copies.
type Registry struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]*Job
	logger *slog.Logger
}

// NewRegistry creates an empty job registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		jobs:   make(map[uuid.UUID]*Job),
		logger: logger.With("system", "jobs"),
	}
}

// Create registers a new processing job for the given source document
// reference under a fresh random identifier.
func (r *Registry) Create(sourceRef string) Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	job := &Job{
		ID:           uuid.New(),
		Status:       StatusProcessing,
		SourceRef:    sourceRef,
		StageOutputs: make(map[artifacts.Stage]string),
		CreatedAt:    time.Now(),
	}
	r.jobs[job.ID] = job

	r.logger.Info("job created", "job_id", job.ID, "source", sourceRef)
	return job.snapshot()
}

// Materialize registers a synthetic completed job under the given
// deterministic identifier, referencing pre-existing artifacts. Repeated
// materialization for the same identifier converges to the existing entry.
func (r *Registry) Materialize(id uuid.UUID, sourceRef string) Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.jobs[id]; ok {
		return existing.snapshot()
	}

	now := time.Now()
	job := &Job{
		ID:           id,
		Status:       StatusCompleted,
		SourceRef:    sourceRef,
		StageOutputs: make(map[artifacts.Stage]string),
		Reused:       true,
		CreatedAt:    now,
		CompletedAt:  &now,
	}
	r.jobs[id] = job

	r.logger.Info("job materialized from existing artifacts", "job_id", id, "source", sourceRef)
	return job.snapshot()
}

// Find returns a snapshot of the job with the given identifier.
func (r *Registry) Find(id uuid.UUID) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job.snapshot(), nil
}

// SetStageOutput records a stage's output on a job. Outputs are
// append-only: writing a stage twice or writing to a terminal job is an
// error, preserving the at-most-once stage contract.
func (r *Registry) SetStageOutput(id uuid.UUID, stage artifacts.Stage, output string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.Status.Terminal() {
		return ErrTerminal
	}
	if _, exists := job.StageOutputs[stage]; exists {
		return ErrStageWritten
	}

	job.StageOutputs[stage] = output
	return nil
}

// Complete marks a processing job completed.
func (r *Registry) Complete(id uuid.UUID) error {
	return r.finish(id, StatusCompleted, "")
}

// Fail marks a processing job failed with the given error description.
// Previously recorded stage outputs remain intact for inspection.
func (r *Registry) Fail(id uuid.UUID, message string) error {
	return r.finish(id, StatusFailed, message)
}

func (r *Registry) finish(id uuid.UUID, status Status, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if job.Status.Terminal() {
		return ErrTerminal
	}

	now := time.Now()
	job.Status = status
	job.Error = message
	job.CompletedAt = &now

	r.logger.Info("job finished", "job_id", id, "status", status, "error", message)
	return nil
}
