package api

import (
	"github.com/procflow-io/procflow/internal/artifacts"
	"github.com/procflow-io/procflow/internal/chat"
	"github.com/procflow-io/procflow/internal/config"
	"github.com/procflow-io/procflow/internal/documents"
	"github.com/procflow-io/procflow/internal/jobs"
	"github.com/procflow-io/procflow/internal/pipeline"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Jobs      *jobs.Registry
	Artifacts *artifacts.Store
	Resolver  *pipeline.Resolver
	Chat      *chat.Service
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	registry := jobs.NewRegistry(runtime.Logger)
	store := artifacts.NewStore(runtime.Storage, runtime.Logger)

	orchestrator := pipeline.NewOrchestrator(
		registry,
		runtime.Extraction,
		runtime.Generator,
		store,
		cfg.Pipeline.StageTimeoutDuration(),
		runtime.Logger,
	)

	launcher := pipeline.NewLauncher(
		runtime.Lifecycle.Context(),
		orchestrator,
		registry,
		cfg.Pipeline.MaxConcurrentJobs,
		runtime.Logger,
	)

	resolver := pipeline.NewResolver(registry, store, launcher, runtime.Logger)

	chatService := chat.NewService(
		runtime.Extraction,
		store,
		runtime.Generator,
		runtime.Logger,
	)

	return &Domain{
		Documents: docsSystem,
		Jobs:      registry,
		Artifacts: store,
		Resolver:  resolver,
		Chat:      chatService,
	}
}
