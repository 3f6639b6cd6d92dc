// Package executor is the client for the external import collaborator: it
// submits a materialized batch and reports per-batch success/failure counts.
// Which rows failed server-side is only known when the server chooses to
// return the optional failedRows list.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/materializer"
)

// ErrSubmissionFailed marks batch-fatal executor rejections. Parsed-row state
// is owned by the session and survives for retry without re-uploading.
var ErrSubmissionFailed = errors.New("batch submission failed")

// BatchResult is the executor's verdict on a submitted batch.
type BatchResult struct {
	SuccessCount int `json:"successCount"`
	FailedCount  int `json:"failedCount"`
	// FailedRows lists the original row numbers that failed server-side.
	// Optional: older executors return only the aggregate counts.
	FailedRows []int `json:"failedRows,omitempty"`
}

// Client submits batches to the import executor over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds an executor client. A zero timeout defaults to 30s so a
// hung executor cannot block the importing state indefinitely.
func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Submit posts the batch and decodes the result. Any transport error or
// non-2xx status is fatal to this batch only.
func (c *Client) Submit(ctx context.Context, batch *materializer.Batch) (*BatchResult, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/imports/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Info("submitting import batch",
		"fileName", batch.FileName,
		"rows", len(batch.Transactions),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: executor returned %d: %s", ErrSubmissionFailed, resp.StatusCode, snippet)
	}

	var result BatchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: invalid executor response: %v", ErrSubmissionFailed, err)
	}

	c.logger.Info("import batch finished",
		"succeeded", result.SuccessCount,
		"failed", result.FailedCount,
	)
	return &result, nil
}
