package jobs

import (
	"errors"
	"net/http"
)

// Domain errors for job registry operations.
var (
	ErrNotFound     = errors.New("job not found")
	ErrTerminal     = errors.New("job already in a terminal state")
	ErrStageWritten = errors.New("stage output already recorded")
)

// MapHTTPStatus maps job domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrTerminal) || errors.Is(err, ErrStageWritten) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
