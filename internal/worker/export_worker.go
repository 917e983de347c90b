package worker

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// exportStore is the repository subset the export worker needs.
type exportStore interface {
	ListUnexportedTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	GetTransactionsByIDs(ctx context.Context, ids []string) ([]core.Transaction, error)
	MarkTransactionsExported(ctx context.Context, ids []string) error
}

// sheetWriter appends transaction rows to the spreadsheet.
type sheetWriter interface {
	AppendTransactions(ctx context.Context, txns []core.Transaction) error
}

// exportPublisher queues transaction batches for the export consumer.
type exportPublisher interface {
	PublishTransactionExport(ctx context.Context, ids []string) error
}

// ExportWorker drives the spreadsheet export pipeline. The publishing
// side periodically queues unexported transactions; the consuming side
// appends them to the sheet and marks them exported.
type ExportWorker struct {
	store     exportStore
	sheets    sheetWriter
	publisher exportPublisher
	batchSize int
	interval  time.Duration
	logger    *log.Logger
}

func NewExportWorker(store exportStore, sheets sheetWriter, publisher exportPublisher, batchSize int, interval time.Duration, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		store:     store,
		sheets:    sheets,
		publisher: publisher,
		batchSize: batchSize,
		interval:  interval,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// RunPublisher queues pending exports on every tick until the context is
// cancelled. One immediate pass runs at startup to recover work queued
// before a restart.
func (w *ExportWorker) RunPublisher(ctx context.Context) error {
	if err := w.EnqueuePending(ctx); err != nil {
		w.logger.ErrorContext(ctx, "startup export pass failed", log.FieldError, err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.EnqueuePending(ctx); err != nil {
				w.logger.ErrorContext(ctx, "export pass failed", log.FieldError, err)
			}
		}
	}
}

// EnqueuePending publishes one batch of unexported transactions.
func (w *ExportWorker) EnqueuePending(ctx context.Context) error {
	txns, err := w.store.ListUnexportedTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unexported transactions: %w", err)
	}
	if len(txns) == 0 {
		return nil
	}

	ids := make([]string, len(txns))
	for i, t := range txns {
		ids[i] = t.ID
	}
	if err := w.publisher.PublishTransactionExport(ctx, ids); err != nil {
		return fmt.Errorf("publish export batch: %w", err)
	}

	w.logger.InfoContext(ctx, "export batch queued", "count", len(ids))
	return nil
}

// HandleTransactionExport appends one queued batch to the spreadsheet.
// Transactions deleted since publishing simply drop out of the batch.
func (w *ExportWorker) HandleTransactionExport(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	txns, err := w.store.GetTransactionsByIDs(ctx, msg.TransactionIDs)
	if err != nil {
		return fmt.Errorf("load export batch: %w", err)
	}
	if len(txns) == 0 {
		return nil
	}

	if err := w.sheets.AppendTransactions(ctx, txns); err != nil {
		return fmt.Errorf("append to sheet: %w", err)
	}

	ids := make([]string, len(txns))
	for i, t := range txns {
		ids[i] = t.ID
	}
	if err := w.store.MarkTransactionsExported(ctx, ids); err != nil {
		return fmt.Errorf("mark transactions exported: %w", err)
	}

	w.logger.InfoContext(ctx, "export batch written",
		log.FieldOperation, log.OpExport, "count", len(ids))
	return nil
}
