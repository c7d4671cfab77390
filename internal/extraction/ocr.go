package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Optical extraction runs as an asynchronous remote operation: a start
// request registers the document and returns an operation identifier, then
// the client polls until the operation reaches a terminal state.
const (
	opStatusRunning   = "running"
	opStatusSucceeded = "succeeded"
	opStatusFailed    = "failed"
)

type startRequest struct {
	StorageKey string `json:"storage_key"`
}

type startResponse struct {
	OperationID string `json:"operation_id"`
}

type operationResponse struct {
	Status string `json:"status"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OCRClient drives the external optical text-extraction service.
type OCRClient struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	http         *http.Client
	logger       *slog.Logger
}

// NewOCRClient creates an OCRClient from the given configuration.
func NewOCRClient(cfg *Config, logger *slog.Logger) *OCRClient {
	return &OCRClient{
		baseURL:      strings.TrimRight(cfg.OCRBaseURL, "/"),
		apiKey:       cfg.OCRAPIKey,
		pollInterval: cfg.PollIntervalDuration(),
		http:         &http.Client{},
		logger:       logger.With("system", "ocr"),
	}
}

// ExtractText starts an optical extraction operation for the document at
// the given storage key and polls until it succeeds, fails, or ctx expires.
func (c *OCRClient) ExtractText(ctx context.Context, storageKey string) (string, error) {
	operationID, err := c.start(ctx, storageKey)
	if err != nil {
		return "", err
	}

	c.logger.Info("optical extraction started", "source", storageKey, "operation", operationID)

	for {
		op, err := c.poll(ctx, operationID)
		if err != nil {
			return "", err
		}

		switch op.Status {
		case opStatusSucceeded:
			return op.Text, nil
		case opStatusFailed:
			return "", fmt.Errorf("%w: optical extraction: %s", ErrExtractFailed, op.Error)
		case opStatusRunning:
		default:
			return "", fmt.Errorf("%w: unknown operation status %q", ErrExtractFailed, op.Status)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", ErrExtractFailed, ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *OCRClient) start(ctx context.Context, storageKey string) (string, error) {
	body, err := json.Marshal(startRequest{StorageKey: storageKey})
	if err != nil {
		return "", fmt.Errorf("%w: encode start request: %w", ErrExtractFailed, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/analyze",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("%w: create start request: %w", ErrExtractFailed, err)
	}
	c.applyHeaders(req)

	var resp startResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.OperationID == "" {
		return "", fmt.Errorf("%w: start returned no operation id", ErrExtractFailed)
	}

	return resp.OperationID, nil
}

func (c *OCRClient) poll(ctx context.Context, operationID string) (*operationResponse, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/operations/"+operationID,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: create poll request: %w", ErrExtractFailed, err)
	}
	c.applyHeaders(req)

	var resp operationResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *OCRClient) applyHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *OCRClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrExtractFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrExtractFailed, err)
	}

	return nil
}
