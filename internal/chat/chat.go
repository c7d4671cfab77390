// Package chat implements conversational access to a processed document.
// Questions are answered against the document's extracted text; two fixed
// prompts short-circuit to stored material without a generation call.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/procflow-io/procflow/internal/artifacts"
	"github.com/procflow-io/procflow/internal/extraction"
	"github.com/procflow-io/procflow/internal/generation"
	"github.com/procflow-io/procflow/internal/prompts"
	"github.com/procflow-io/procflow/pkg/storage"
)

// Canned prompts matched after lowercasing and trimming. They bypass the
// generation backend entirely.
const (
	promptExtractedText = "show me the extracted text only."
	promptSummarize     = "summarize the sop"
)

// ErrEmptyPrompt indicates a chat request without a question.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// MapHTTPStatus maps chat errors to HTTP status codes. Extraction errors
// caused by the client's reference, a missing source blob or a document
// kind the extractor cannot read, are still client errors here.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyPrompt) || errors.Is(err, extraction.ErrUnsupportedKind) {
		return http.StatusBadRequest
	}
	if errors.Is(err, artifacts.ErrNotFound) || errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Extractor converts a source document reference into plain text.
type Extractor interface {
	Extract(ctx context.Context, sourceRef string) (string, error)
}

// ArtifactReader reads a stored stage artifact for a document.
type ArtifactReader interface {
	Read(ctx context.Context, docKey string, stage artifacts.Stage) (string, error)
}

// Service answers questions about a document.
type Service struct {
	extractor Extractor
	artifacts ArtifactReader
	generator generation.Generator
	logger    *slog.Logger
}

// NewService creates a chat service over the given collaborators.
func NewService(
	extractor Extractor,
	reader ArtifactReader,
	generator generation.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		extractor: extractor,
		artifacts: reader,
		generator: generator,
		logger:    logger.With("system", "chat"),
	}
}

// Respond answers a question about the document behind sourceRef. The
// extracted text is recomputed per request so answers always reflect the
// current document content.
func (s *Service) Respond(ctx context.Context, sourceRef, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	text, err := s.extractor.Extract(ctx, sourceRef)
	if err != nil {
		return "", fmt.Errorf("extract chat context: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(prompt)) {
	case promptExtractedText:
		return text, nil
	case promptSummarize:
		summary, err := s.artifacts.Read(ctx, sourceRef, artifacts.StageSummary)
		if err != nil {
			return "", fmt.Errorf("read stored summary: %w", err)
		}
		return summary, nil
	}

	answer, err := s.generator.Complete(ctx, prompts.Chat(text, prompt))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	s.logger.Debug("chat answered", "source", sourceRef, "prompt_bytes", len(prompt))
	return answer, nil
}
