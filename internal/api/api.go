// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/procflow-io/procflow/internal/config"
	"github.com/procflow-io/procflow/internal/infrastructure"
	"github.com/procflow-io/procflow/pkg/middleware"
	"github.com/procflow-io/procflow/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	spec, err := specHandler(cfg)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", spec)

	auth, err := middleware.Auth(infra.Lifecycle.Context(), &cfg.API.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth middleware: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth)
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
