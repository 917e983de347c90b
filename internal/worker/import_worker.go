// Package worker holds the background jobs driven by AMQP messages and
// timers: statement imports and the export pipeline.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/importer"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// importStore is the repository subset the import worker needs.
type importStore interface {
	GetStatement(ctx context.Context, userID, id string) (core.Statement, error)
	CreateTransactions(ctx context.Context, txns []core.Transaction) error
	MarkStatementProcessed(ctx context.Context, id string, rowCount, skippedRows int, processedAt time.Time) error
	MarkStatementFailed(ctx context.Context, id, errMsg string, failedAt time.Time) error
}

// pointsAwarder credits the uploader once the import lands.
type pointsAwarder interface {
	AwardImportPoints(ctx context.Context, userID, statementID string, importedRows int) error
}

// cacheInvalidator drops the user's cached transaction list after the
// worker writes rows behind the API's back.
type cacheInvalidator interface {
	Invalidate(userID string)
}

// ImportWorker parses uploaded statement files into transactions.
type ImportWorker struct {
	store     importStore
	rewards   pointsAwarder
	cache     cacheInvalidator
	batchSize int
	logger    *log.Logger
}

func NewImportWorker(store importStore, rewards pointsAwarder, cache cacheInvalidator, batchSize int, logger *log.Logger) *ImportWorker {
	if batchSize < 1 {
		batchSize = 50
	}
	return &ImportWorker{
		store:     store,
		rewards:   rewards,
		cache:     cache,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleStatementImport processes one statement import message. Returning
// nil acknowledges the message; bad statements are marked failed and
// acknowledged so they never poison the queue.
func (w *ImportWorker) HandleStatementImport(ctx context.Context, msg *amqp.StatementImportMessage) error {
	st, err := w.store.GetStatement(ctx, msg.UserID, msg.StatementID)
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.WarnContext(ctx, "statement not found, dropping message",
			log.FieldStatementID, msg.StatementID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load statement: %w", err)
	}

	// Redeliveries of an already processed statement are acknowledged
	// without reimporting.
	if st.Status != core.StatementPending {
		w.logger.InfoContext(ctx, "statement already handled, skipping",
			log.FieldStatementID, st.ID,
			"status", string(st.Status))
		return nil
	}

	f, err := os.Open(st.StoredPath)
	if err != nil {
		return w.fail(ctx, st.ID, fmt.Sprintf("open statement file: %v", err))
	}
	result, err := importer.Parse(f, st.UserID, time.Now().UTC())
	f.Close()
	if err != nil {
		return w.fail(ctx, st.ID, err.Error())
	}

	for start := 0; start < len(result.Transactions); start += w.batchSize {
		end := min(start+w.batchSize, len(result.Transactions))
		if err := w.store.CreateTransactions(ctx, result.Transactions[start:end]); err != nil {
			return fmt.Errorf("insert imported transactions: %w", err)
		}
	}

	if err := w.store.MarkStatementProcessed(ctx, st.ID, len(result.Transactions), result.SkippedRows, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark statement processed: %w", err)
	}

	if err := w.rewards.AwardImportPoints(ctx, st.UserID, st.ID, len(result.Transactions)); err != nil {
		w.logger.ErrorContext(ctx, "failed to award import points",
			log.FieldStatementID, st.ID,
			log.FieldError, err)
	}

	w.cache.Invalidate(st.UserID)

	w.logger.InfoContext(ctx, "statement imported",
		log.FieldOperation, log.OpImport,
		log.FieldStatementID, st.ID,
		log.FieldUserID, st.UserID,
		log.FieldRowCount, len(result.Transactions),
		log.FieldSkippedRows, result.SkippedRows)
	return nil
}

// fail records the failure and acknowledges the message.
func (w *ImportWorker) fail(ctx context.Context, statementID, reason string) error {
	w.logger.WarnContext(ctx, "statement import failed",
		log.FieldStatementID, statementID,
		"reason", reason)
	if err := w.store.MarkStatementFailed(ctx, statementID, reason, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark statement failed: %w", err)
	}
	return nil
}
