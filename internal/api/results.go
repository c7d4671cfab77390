package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/procflow-io/procflow/internal/artifacts"
	"github.com/procflow-io/procflow/pkg/handlers"
	"github.com/procflow-io/procflow/pkg/routes"
	"github.com/procflow-io/procflow/pkg/storage"
)

// resultsHandler exposes the stored file and artifact surfaces: uploaded
// blobs, the per-document artifact tree, and individual artifact content.
type resultsHandler struct {
	domain      *Domain
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newResultsHandler(domain *Domain, runtime *Runtime, maxListSize int32) *resultsHandler {
	return &resultsHandler{
		domain:      domain,
		store:       runtime.Storage,
		logger:      runtime.Logger.With("handler", "results"),
		maxListSize: maxListSize,
	}
}

func (h *resultsHandler) routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/files", Handler: h.files},
			{Method: "GET", Pattern: "/results_structure", Handler: h.structure},
			{Method: "GET", Pattern: "/results/{path...}", Handler: h.artifact},
		},
	}
}

// files lists blob keys, defaulting to the uploaded document prefix.
func (h *resultsHandler) files(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = "documents/"
	}
	marker := r.URL.Query().Get("marker")

	maxResults, err := storage.ParseMaxResults(r.URL.Query().Get("max_results"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	result, err := h.store.List(r.Context(), prefix, marker, maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// structure returns artifact filenames grouped by document identity.
func (h *resultsHandler) structure(w http.ResponseWriter, r *http.Request) {
	tree, err := h.domain.Artifacts.Structure(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, tree)
}

// artifact streams one stored artifact addressed as <doc_key>/<filename>.
func (h *resultsHandler) artifact(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("path")

	slash := strings.LastIndex(raw, "/")
	if slash < 1 || slash == len(raw)-1 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, storage.ErrInvalidKey)
		return
	}
	docKey, name := raw[:slash], raw[slash+1:]

	result, err := h.domain.Artifacts.OpenByName(r.Context(), docKey, name)
	if err != nil {
		handlers.RespondError(w, h.logger, artifacts.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}
