// Package generation provides the text-generation capability the pipeline
// stages call. The backend is any OpenAI-compatible chat-completions
// endpoint; each call is at-most-once with no retry.
package generation

import (
	"context"
	"errors"
)

// Generator produces a text completion for a prompt. Implementations are
// fallible and may block for the full duration of the backend call; callers
// bound them with context deadlines.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Sentinel errors for generation operations.
var (
	ErrBackendFailed = errors.New("generation backend failed")
	ErrEmptyResponse = errors.New("generation backend returned no choices")
)
