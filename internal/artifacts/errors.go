package artifacts

import (
	"errors"
	"net/http"

	"github.com/procflow-io/procflow/pkg/storage"
)

// Domain errors for artifact operations.
var (
	ErrInvalidStage = errors.New("unknown pipeline stage")
	ErrNotFound     = errors.New("artifact not found")
)

// MapHTTPStatus maps artifact domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, storage.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidStage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
