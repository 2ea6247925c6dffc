// Package worker moves expenses from the document store into the
// export spreadsheet, driven by queue messages with a startup backfill
// for anything missed while the worker was down.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roomledger/internal/amqp"
	"roomledger/internal/core"
	"roomledger/internal/docstore"
	"roomledger/internal/sheets"
)

// exportRecord is the per-expense export log entry, keyed by expense id.
type exportRecord struct {
	SheetsRef  string `json:"sheetsRef"`
	ExportedAt string `json:"exportedAt"`
}

// ExportWorker exports expenses to the configured sheet exactly once,
// tracked through the export log collection.
type ExportWorker struct {
	store     docstore.Store
	writer    sheets.ExpenseWriter
	batchSize int
}

func NewExportWorker(store docstore.Store, writer sheets.ExpenseWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export message from the queue.
// An expense deleted before the worker got to it is acknowledged and
// skipped, there is nothing left to export.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ExpenseExportMessage) error {
	body, err := w.store.Get(ctx, docstore.CollectionExpenses, msg.ID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			slog.InfoContext(ctx, "Expense gone before export, skipping", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get expense: %w", err)
	}

	var expense core.Expense
	if err := decodeExpense(body, msg.ID, &expense); err != nil {
		return err
	}

	return w.export(ctx, expense)
}

// StartupBackfill exports expenses that have no export log entry, in
// case queue messages were lost while the worker was down.
func (w *ExportWorker) StartupBackfill(ctx context.Context) error {
	docs, err := w.store.List(ctx, docstore.CollectionExpenses, docstore.Ascending)
	if err != nil {
		return fmt.Errorf("list expenses for backfill: %w", err)
	}

	exported := make(map[string]bool)
	logDocs, err := w.store.List(ctx, docstore.CollectionExportLog, docstore.Ascending)
	if err != nil {
		return fmt.Errorf("list export log: %w", err)
	}
	for _, doc := range logDocs {
		exported[doc.ID] = true
	}

	limit := w.batchSize * 5
	pending := 0
	successCount := 0
	errorCount := 0

	for _, doc := range docs {
		if exported[doc.ID] {
			continue
		}
		if pending >= limit {
			break
		}
		pending++

		var expense core.Expense
		if err := decodeExpense(doc.Body, doc.ID, &expense); err != nil {
			slog.ErrorContext(ctx, "Failed to decode expense for backfill",
				"id", doc.ID, "error", err)
			errorCount++
			continue
		}
		if err := w.export(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to export expense during backfill",
				"id", doc.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	if pending > 0 {
		slog.InfoContext(ctx, "Startup backfill completed",
			"pending", pending,
			"exported", successCount,
			"errors", errorCount)
	} else {
		slog.InfoContext(ctx, "No pending expenses found on startup")
	}
	return nil
}

func (w *ExportWorker) export(ctx context.Context, expense core.Expense) error {
	// Already exported deliveries are acknowledged without a second row.
	if _, err := w.store.Get(ctx, docstore.CollectionExportLog, expense.ID); err == nil {
		slog.InfoContext(ctx, "Expense already exported, skipping", "id", expense.ID)
		return nil
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("check export log: %w", err)
	}

	ref, err := w.writer.Append(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	record := exportRecord{
		SheetsRef:  ref,
		ExportedAt: core.Timestamp(time.Now()),
	}
	body, err := encodeRecord(record)
	if err != nil {
		return err
	}
	if err := w.store.Put(ctx, docstore.CollectionExportLog, expense.ID, record.ExportedAt, body); err != nil {
		// The row exists; a failed log write means a possible duplicate
		// on the next delivery, which the sheet tolerates.
		slog.ErrorContext(ctx, "Failed to record export", "id", expense.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported expense",
		"id", expense.ID,
		"sheets_ref", ref,
		"title", expense.Title,
		"amount_cents", expense.Amount.Cents)
	return nil
}
