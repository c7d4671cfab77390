package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/artifacts"
	"github.com/procflow-io/procflow/internal/documents"
	"github.com/procflow-io/procflow/internal/jobs"
	"github.com/procflow-io/procflow/pkg/handlers"
	"github.com/procflow-io/procflow/pkg/routes"
	"github.com/procflow-io/procflow/pkg/storage"
)

var (
	errInvalidJobID   = errors.New("invalid job id")
	errJobNotComplete = errors.New("job has not completed")
	errMissingKey     = errors.New("storage_key required")
)

// pipelineHandler exposes job submission, status polling, and result
// download endpoints.
type pipelineHandler struct {
	domain        *Domain
	store         storage.System
	logger        *slog.Logger
	maxUploadSize int64
}

func newPipelineHandler(domain *Domain, runtime *Runtime, maxUploadSize int64) *pipelineHandler {
	return &pipelineHandler{
		domain:        domain,
		store:         runtime.Storage,
		logger:        runtime.Logger.With("handler", "pipeline"),
		maxUploadSize: maxUploadSize,
	}
}

func (h *pipelineHandler) routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/upload", Handler: h.upload},
			{Method: "POST", Pattern: "/process_existing", Handler: h.processExisting},
			{Method: "GET", Pattern: "/status/{job_id}", Handler: h.status},
			{Method: "GET", Pattern: "/download/{job_id}", Handler: h.download},
			{Method: "GET", Pattern: "/download/{job_id}/{stage}", Handler: h.downloadStage},
		},
	}
}

type submitResponse struct {
	JobID      uuid.UUID   `json:"job_id"`
	Status     jobs.Status `json:"status"`
	Reused     bool        `json:"reused"`
	StorageKey string      `json:"storage_key"`
}

type processExistingRequest struct {
	StorageKey string `json:"storage_key"`
}

// upload registers the submitted file in the document catalog and starts a
// pipeline run for it. Re-uploading a filename whose full artifact set
// already exists yields the prior results without recomputation.
func (h *pipelineHandler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, documents.ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidFile)
		return
	}

	doc, err := h.findOrCreate(r, header, data)
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	job, reused, err := h.domain.Resolver.Resolve(r.Context(), doc.StorageKey)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	h.respondSubmit(w, job, reused, doc.StorageKey)
}

// findOrCreate reuses the catalog entry for a previously uploaded filename
// so repeated uploads map to the same document identity.
func (h *pipelineHandler) findOrCreate(
	r *http.Request,
	header *multipart.FileHeader,
	data []byte,
) (*documents.Document, error) {
	doc, err := h.domain.Documents.FindByFilename(r.Context(), header.Filename)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, documents.ErrNotFound) {
		return nil, err
	}

	contentType := documents.DetectContentType(header.Header.Get("Content-Type"), data)
	pageCount := documents.ExtractPDFPageCount(h.logger, data, contentType)

	return h.domain.Documents.Create(r.Context(), documents.CreateCommand{
		Data:        data,
		Filename:    header.Filename,
		ContentType: contentType,
		PageCount:   pageCount,
	})
}

// processExisting starts a pipeline run for a blob already in storage.
func (h *pipelineHandler) processExisting(w http.ResponseWriter, r *http.Request) {
	var req processExistingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingKey)
		return
	}
	if req.StorageKey == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errMissingKey)
		return
	}

	exists, err := h.store.Exists(r.Context(), req.StorageKey)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	if !exists {
		handlers.RespondError(w, h.logger, http.StatusNotFound, storage.ErrNotFound)
		return
	}

	job, reused, err := h.domain.Resolver.Resolve(r.Context(), req.StorageKey)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	h.respondSubmit(w, job, reused, req.StorageKey)
}

func (h *pipelineHandler) respondSubmit(w http.ResponseWriter, job jobs.Job, reused bool, key string) {
	status := http.StatusAccepted
	if reused {
		status = http.StatusOK
	}

	handlers.RespondJSON(w, status, submitResponse{
		JobID:      job.ID,
		Status:     job.Status,
		Reused:     reused,
		StorageKey: key,
	})
}

// status returns the tracked job state including any recorded stage outputs.
func (h *pipelineHandler) status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("job_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidJobID)
		return
	}

	job, err := h.domain.Jobs.Find(id)
	if err != nil {
		handlers.RespondJSON(w, http.StatusNotFound, map[string]string{"status": "not_found"})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}

// download streams the consolidated result for a completed job.
func (h *pipelineHandler) download(w http.ResponseWriter, r *http.Request) {
	job, ok := h.findJob(w, r)
	if !ok {
		return
	}

	if job.Status != jobs.StatusCompleted {
		handlers.RespondError(w, h.logger, http.StatusNotFound, errJobNotComplete)
		return
	}

	h.streamArtifact(w, r, job.SourceRef, artifacts.StageResult)
}

// downloadStage streams one intermediate stage artifact for a job.
func (h *pipelineHandler) downloadStage(w http.ResponseWriter, r *http.Request) {
	job, ok := h.findJob(w, r)
	if !ok {
		return
	}

	stage, err := artifacts.ParseStage(r.PathValue("stage"))
	if err != nil {
		handlers.RespondError(w, h.logger, artifacts.MapHTTPStatus(err), err)
		return
	}

	h.streamArtifact(w, r, job.SourceRef, stage)
}

func (h *pipelineHandler) findJob(w http.ResponseWriter, r *http.Request) (jobs.Job, bool) {
	id, err := uuid.Parse(r.PathValue("job_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidJobID)
		return jobs.Job{}, false
	}

	job, err := h.domain.Jobs.Find(id)
	if err != nil {
		handlers.RespondError(w, h.logger, jobs.MapHTTPStatus(err), err)
		return jobs.Job{}, false
	}

	return job, true
}

func (h *pipelineHandler) streamArtifact(
	w http.ResponseWriter,
	r *http.Request,
	docKey string,
	stage artifacts.Stage,
) {
	result, err := h.domain.Artifacts.Open(r.Context(), docKey, stage)
	if err != nil {
		handlers.RespondError(w, h.logger, artifacts.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", stage.Filename()),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}
