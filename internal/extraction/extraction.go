// Package extraction converts source documents into plain text. The method
// is selected by document kind: PDF files are read through their native
// text layer, Word documents through their main document part, and image
// files go through an external optical-extraction service with an
// internal polling loop.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/procflow-io/procflow/pkg/storage"
)

// EmptyTextSentinel stands in for documents whose extraction succeeded but
// produced no textual content. Empty-but-successful extraction is a valid
// stage input, not a failure.
const EmptyTextSentinel = "(no text found in document)"

// Kind classifies a source document by its extraction method.
type Kind string

// Recognized source document kinds.
const (
	KindPDF     Kind = "pdf"
	KindDocx    Kind = "docx"
	KindImage   Kind = "image"
	KindUnknown Kind = "unknown"
)

// DetectKind determines the extraction method for a storage reference by
// its file extension.
func DetectKind(sourceRef string) Kind {
	switch strings.ToLower(path.Ext(sourceRef)) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDocx
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		return KindImage
	default:
		return KindUnknown
	}
}

// Sentinel errors for extraction operations.
var (
	ErrUnsupportedKind = errors.New("unsupported source document kind")
	ErrExtractFailed   = errors.New("text extraction failed")
)

// Service extracts plain text from source documents held in blob storage.
type Service struct {
	storage storage.System
	ocr     *OCRClient
	logger  *slog.Logger
}

// NewService creates an extraction service over blob storage and the
// optical extraction client.
func NewService(store storage.System, ocr *OCRClient, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		ocr:     ocr,
		logger:  logger.With("system", "extraction"),
	}
}

// Extract returns the plain text of the document at sourceRef. An
// unrecognized document kind is an error; a recognized document with no
// textual content yields EmptyTextSentinel.
func (s *Service) Extract(ctx context.Context, sourceRef string) (string, error) {
	var (
		text string
		err  error
	)

	switch kind := DetectKind(sourceRef); kind {
	case KindPDF:
		text, err = s.extractPDF(ctx, sourceRef)
	case KindDocx:
		text, err = s.extractDocx(ctx, sourceRef)
	case KindImage:
		text, err = s.ocr.ExtractText(ctx, sourceRef)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, sourceRef)
	}

	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Info("extraction produced no text", "source", sourceRef)
		return EmptyTextSentinel, nil
	}

	s.logger.Info("text extracted", "source", sourceRef, "bytes", len(text))
	return text, nil
}

func (s *Service) extractPDF(ctx context.Context, sourceRef string) (string, error) {
	data, err := s.downloadSource(ctx, sourceRef)
	if err != nil {
		return "", err
	}

	text, err := pdfPlainText(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrExtractFailed, sourceRef, err)
	}

	return text, nil
}

func (s *Service) extractDocx(ctx context.Context, sourceRef string) (string, error) {
	data, err := s.downloadSource(ctx, sourceRef)
	if err != nil {
		return "", err
	}

	text, err := docxPlainText(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrExtractFailed, sourceRef, err)
	}

	return text, nil
}

func (s *Service) downloadSource(ctx context.Context, sourceRef string) ([]byte, error) {
	result, err := s.storage.Download(ctx, sourceRef)
	if err != nil {
		return nil, fmt.Errorf("%w: download source %s: %w", ErrExtractFailed, sourceRef, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read source %s: %w", ErrExtractFailed, sourceRef, err)
	}

	return data, nil
}
