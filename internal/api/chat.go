package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/procflow-io/procflow/internal/chat"
	"github.com/procflow-io/procflow/internal/jobs"
	"github.com/procflow-io/procflow/pkg/handlers"
	"github.com/procflow-io/procflow/pkg/routes"
)

type chatHandler struct {
	domain *Domain
	logger *slog.Logger
}

func newChatHandler(domain *Domain, runtime *Runtime) *chatHandler {
	return &chatHandler{
		domain: domain,
		logger: runtime.Logger.With("handler", "chat"),
	}
}

func (h *chatHandler) routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/chat", Handler: h.respond},
		},
	}
}

type chatRequest struct {
	JobID  string `json:"job_id"`
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// respond answers a question about the document behind a processing job.
// The job identifier anchors the conversation to a submitted document.
func (h *chatHandler) respond(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, chat.ErrEmptyPrompt)
		return
	}

	id, err := uuid.Parse(req.JobID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidJobID)
		return
	}

	job, err := h.domain.Jobs.Find(id)
	if err != nil {
		handlers.RespondError(w, h.logger, jobs.MapHTTPStatus(err), err)
		return
	}

	answer, err := h.domain.Chat.Respond(r.Context(), job.SourceRef, req.Prompt)
	if err != nil {
		handlers.RespondError(w, h.logger, chat.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, chatResponse{Response: answer})
}
