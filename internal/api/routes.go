package api

import (
	"net/http"

	"github.com/procflow-io/procflow/internal/config"
	"github.com/procflow-io/procflow/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	pipelineHandler := newPipelineHandler(domain, runtime, cfg.API.MaxUploadSizeBytes())
	chatHandler := newChatHandler(domain, runtime)
	resultsHandler := newResultsHandler(domain, runtime, cfg.Storage.MaxListSize)

	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		pipelineHandler.routes(),
		chatHandler.routes(),
		resultsHandler.routes(),
	)
}
