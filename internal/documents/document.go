// Package documents implements the catalog of uploaded source documents.
// It provides types, data access, and blob storage integration for the
// files the pipeline consumes.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document represents a registered source document with its metadata and
// blob storage reference. StorageKey doubles as the document identity the
// pipeline derives artifact locations and reuse decisions from.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes. PageCount is optional and may
// be extracted by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
