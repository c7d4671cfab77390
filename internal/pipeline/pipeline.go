// Package pipeline implements the orchestrator that drives one job from
// submission to completion: text extraction, the five generation stages in
// dependency order, artifact persistence, and terminal job state. All
// stage failures are converted into job state; the pipeline never
// propagates an error past its own boundary.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/artifacts"
	"github.com/procflow-io/procflow/internal/bpmn"
	"github.com/procflow-io/procflow/internal/generation"
	"github.com/procflow-io/procflow/internal/jobs"
)

// Extractor converts a source document reference into plain text.
type Extractor interface {
	Extract(ctx context.Context, sourceRef string) (string, error)
}

// ArtifactStore is the subset of artifact operations the orchestrator and
// resolver need.
type ArtifactStore interface {
	Save(ctx context.Context, docKey string, stage artifacts.Stage, content string) error
	AllPresent(ctx context.Context, docKey string) (bool, error)
}

// Orchestrator executes the stage chain for one job at a time. It is the
// sole writer of the job entry it runs and of that job's artifacts.
type Orchestrator struct {
	registry     *jobs.Registry
	extractor    Extractor
	generator    generation.Generator
	artifacts    ArtifactStore
	stageTimeout time.Duration
	logger       *slog.Logger
}

// NewOrchestrator creates an Orchestrator with the given collaborators.
func NewOrchestrator(
	registry *jobs.Registry,
	extractor Extractor,
	generator generation.Generator,
	store ArtifactStore,
	stageTimeout time.Duration,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		registry:     registry,
		extractor:    extractor,
		generator:    generator,
		artifacts:    store,
		stageTimeout: stageTimeout,
		logger:       logger.With("system", "pipeline"),
	}
}

// Run drives the job to a terminal state. Any stage failure marks the job
// failed with the captured error; stage outputs recorded before the
// failure remain inspectable.
func (o *Orchestrator) Run(ctx context.Context, jobID uuid.UUID, sourceRef string) {
	o.logger.Info("pipeline started", "job_id", jobID, "source", sourceRef)

	if err := o.execute(ctx, jobID, sourceRef); err != nil {
		o.logger.Warn("pipeline failed", "job_id", jobID, "error", err)
		if failErr := o.registry.Fail(jobID, err.Error()); failErr != nil {
			o.logger.Error("failed to mark job failed", "job_id", jobID, "error", failErr)
		}
		return
	}

	if err := o.registry.Complete(jobID); err != nil {
		o.logger.Error("failed to mark job completed", "job_id", jobID, "error", err)
		return
	}

	o.logger.Info("pipeline completed", "job_id", jobID)
}

func (o *Orchestrator) execute(ctx context.Context, jobID uuid.UUID, sourceRef string) error {
	outputs := make(map[artifacts.Stage]string)

	text, err := o.extract(ctx, sourceRef)
	if err != nil {
		return err
	}

	outputs[artifacts.StageExtractedText] = text
	if err := o.record(ctx, jobID, sourceRef, artifacts.StageExtractedText, text); err != nil {
		return err
	}

	for _, spec := range stageChain {
		// Cooperative cancellation between stages; a stage in flight is
		// bounded by its own timeout context.
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled: %w", err)
		}

		output, err := o.runStage(ctx, spec, outputs)
		if err != nil {
			return err
		}

		outputs[spec.stage] = output
		if err := o.record(ctx, jobID, sourceRef, spec.stage, output); err != nil {
			return err
		}

		o.logger.Info("stage complete", "job_id", jobID, "stage", spec.stage, "bytes", len(output))
	}

	// The consolidated result artifact duplicates the stage 4 output
	// byte-for-byte.
	final := outputs[artifacts.StageFinalXML]
	return o.record(ctx, jobID, sourceRef, artifacts.StageResult, final)
}

func (o *Orchestrator) extract(ctx context.Context, sourceRef string) (string, error) {
	sctx, cancel := o.stageContext(ctx)
	defer cancel()

	text, err := o.extractor.Extract(sctx, sourceRef)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

func (o *Orchestrator) runStage(
	ctx context.Context,
	spec stageSpec,
	outputs map[artifacts.Stage]string,
) (string, error) {
	sctx, cancel := o.stageContext(ctx)
	defer cancel()

	raw, err := o.generator.Complete(sctx, spec.compose(outputs))
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", spec.stage, err)
	}

	if spec.filterXML {
		raw = bpmn.ExtractXML(raw)
	}

	return raw, nil
}

// record writes the stage output to the job entry and persists it as a
// durable artifact under the document identity.
func (o *Orchestrator) record(
	ctx context.Context,
	jobID uuid.UUID,
	sourceRef string,
	stage artifacts.Stage,
	output string,
) error {
	if err := o.registry.SetStageOutput(jobID, stage, output); err != nil {
		return fmt.Errorf("record stage %s: %w", stage, err)
	}

	if err := o.artifacts.Save(ctx, sourceRef, stage, output); err != nil {
		return fmt.Errorf("persist stage %s: %w", stage, err)
	}

	return nil
}

func (o *Orchestrator) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.stageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.stageTimeout)
}
