// Package service provides the import orchestration logic: file → session
// for review, and session → executor for submission.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/executor"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/extractor"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/materializer"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/row"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/session"
	"github.com/jesusrangel13/wallet-app/pkg/catalog"
)

// Executor is the external collaborator that persists a materialized batch.
type Executor interface {
	Submit(ctx context.Context, batch *materializer.Batch) (*executor.BatchResult, error)
}

// ImportService runs the pipeline stages in order. Extraction, validation,
// and materialization are synchronous in-memory transformations; only the
// executor call crosses the network.
type ImportService struct {
	exec   Executor
	logger *slog.Logger
}

// NewImportService creates the service. The executor may be nil when only
// building sessions (validate-only flows).
func NewImportService(exec Executor, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{exec: exec, logger: logger}
}

// BuildSession decodes the uploaded file and runs the first validation pass
// over every row. Extraction failures are fatal; row problems are not.
func (s *ImportService) BuildSession(fileName, contentType string, data []byte, categories, groups *catalog.Catalog) (*session.Session, error) {
	ext, err := extractor.Extract(fileName, contentType, data)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(ext, categories, groups)
	if err != nil {
		return nil, err
	}

	valid, invalid := sess.Counts()
	s.logger.Info("import session built",
		"fileName", fileName,
		"kind", ext.Kind,
		"valid", valid,
		"invalid", invalid,
	)
	return sess, nil
}

// EditAndValidate applies a single-row edit and re-validates only that row.
func (s *ImportService) EditAndValidate(sess *session.Session, rowNumber int, edit session.RowEdit) (row.ParsedRow, error) {
	updated, err := sess.EditRow(rowNumber, edit)
	if err != nil {
		return row.ParsedRow{}, err
	}
	s.logger.Info("row edited",
		"rowNumber", rowNumber,
		"valid", updated.IsValid(),
	)
	return updated, nil
}

// SubmitOptions configures a batch submission.
type SubmitOptions struct {
	AccountID    uuid.UUID
	CurrencyCode string
	// IncludeInvalid submits invalid rows as-is; they are expected to fail
	// server-side and are reported back against their row numbers.
	IncludeInvalid bool
}

// SubmitResult pairs the executor verdict with the row numbers that were
// actually sent, in file order.
type SubmitResult struct {
	Result        *executor.BatchResult
	SubmittedRows []int
}

// Submit materializes the session's rows against the category catalog and
// hands the batch to the executor. A failed submission leaves the session
// untouched so the user can retry without re-uploading.
func (s *ImportService) Submit(ctx context.Context, sess *session.Session, categories *catalog.Catalog, opts SubmitOptions) (*SubmitResult, error) {
	if s.exec == nil {
		return nil, fmt.Errorf("no import executor configured")
	}

	batch := materializer.Materialize(sess.Rows(), categories, materializer.Options{
		AccountID:      opts.AccountID,
		FileName:       sess.FileName(),
		FileKind:       sess.Kind(),
		CurrencyCode:   opts.CurrencyCode,
		IncludeInvalid: opts.IncludeInvalid,
	})

	result, err := s.exec.Submit(ctx, batch)
	if err != nil {
		return nil, err
	}

	submitted := make([]int, len(batch.Transactions))
	for i, tx := range batch.Transactions {
		submitted[i] = tx.RowNumber
	}
	return &SubmitResult{Result: result, SubmittedRows: submitted}, nil
}
