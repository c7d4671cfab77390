package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/procflow-io/procflow/internal/jobs"
)

// Launcher starts pipeline runs in the background with a bounded number of
// concurrent jobs. Submissions beyond the bound queue on the semaphore
// rather than being rejected.
type Launcher struct {
	base         context.Context
	orchestrator *Orchestrator
	registry     *jobs.Registry
	sem          *semaphore.Weighted
	logger       *slog.Logger
}

// NewLauncher creates a Launcher whose runs are children of base. Cancelling
// base, normally through service shutdown, cancels in-flight and queued
// runs.
func NewLauncher(
	base context.Context,
	orchestrator *Orchestrator,
	registry *jobs.Registry,
	maxConcurrent int64,
	logger *slog.Logger,
) *Launcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Launcher{
		base:         base,
		orchestrator: orchestrator,
		registry:     registry,
		sem:          semaphore.NewWeighted(maxConcurrent),
		logger:       logger.With("system", "pipeline"),
	}
}

// Launch schedules a pipeline run for the job and returns immediately.
func (l *Launcher) Launch(jobID uuid.UUID, sourceRef string) {
	go func() {
		if err := l.sem.Acquire(l.base, 1); err != nil {
			l.logger.Warn("job abandoned before start", "job_id", jobID, "error", err)
			if failErr := l.registry.Fail(jobID, "service shutting down"); failErr != nil {
				l.logger.Error("failed to mark abandoned job", "job_id", jobID, "error", failErr)
			}
			return
		}
		defer l.sem.Release(1)

		l.orchestrator.Run(l.base, jobID, sourceRef)
	}()
}
