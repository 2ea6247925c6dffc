package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"roomledger/internal/amqp"
	"roomledger/internal/core"
	"roomledger/internal/docstore"
	"roomledger/internal/services"
	"roomledger/internal/sheets/memory"
)

func newFixture(t *testing.T) (docstore.Store, *services.ExpenseService, *memory.Store, *ExportWorker) {
	t.Helper()
	store, err := docstore.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	hub := docstore.NewHub(nil)
	expenses := services.NewExpenseService(store, hub, nil)
	writer := memory.New()
	return store, expenses, writer, NewExportWorker(store, writer, 10)
}

func TestHandleExportMessage(t *testing.T) {
	_, expenses, writer, w := newFixture(t)
	ctx := context.Background()

	created, err := expenses.Add(ctx, core.Expense{Title: "Milk", Amount: core.Money{Cents: 250}, Date: "2024-03-10"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := w.HandleExportMessage(ctx, amqp.NewExpenseExportMessage(created.ID)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	items := writer.Items()
	if len(items) != 1 || items[0].Title != "Milk" {
		t.Fatalf("exported rows = %+v", items)
	}
}

func TestHandleExportMessageIsIdempotent(t *testing.T) {
	_, expenses, writer, w := newFixture(t)
	ctx := context.Background()

	created, _ := expenses.Add(ctx, core.Expense{Title: "Milk", Amount: core.Money{Cents: 250}, Date: "2024-03-10"})

	msg := amqp.NewExpenseExportMessage(created.ID)
	if err := w.HandleExportMessage(ctx, msg); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := w.HandleExportMessage(ctx, msg); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	if len(writer.Items()) != 1 {
		t.Fatalf("redelivery must not duplicate the row, got %d", len(writer.Items()))
	}
}

func TestHandleExportMessageForDeletedExpense(t *testing.T) {
	_, _, writer, w := newFixture(t)

	// A deleted expense is acknowledged without error, nothing to export.
	if err := w.HandleExportMessage(context.Background(), amqp.NewExpenseExportMessage("gone")); err != nil {
		t.Fatalf("deleted expense should be skipped, got %v", err)
	}
	if len(writer.Items()) != 0 {
		t.Fatal("nothing should be exported")
	}
}

func TestStartupBackfill(t *testing.T) {
	_, expenses, writer, w := newFixture(t)
	ctx := context.Background()

	first, _ := expenses.Add(ctx, core.Expense{Title: "Milk", Amount: core.Money{Cents: 250}, Date: "2024-03-10"})
	expenses.Add(ctx, core.Expense{Title: "Bread", Amount: core.Money{Cents: 180}, Date: "2024-03-11"})

	// One expense already exported before the restart.
	if err := w.HandleExportMessage(ctx, amqp.NewExpenseExportMessage(first.ID)); err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := w.StartupBackfill(ctx); err != nil {
		t.Fatalf("backfill: %v", err)
	}

	if len(writer.Items()) != 2 {
		t.Fatalf("backfill should export only the missing expense, rows = %d", len(writer.Items()))
	}
}

type failingWriter struct{}

func (failingWriter) Append(context.Context, core.Expense) (string, error) {
	return "", errors.New("sheets down")
}

func TestHandleExportMessageWriterFailure(t *testing.T) {
	store, expenses, _, _ := newFixture(t)
	w := NewExportWorker(store, failingWriter{}, 10)
	ctx := context.Background()

	created, _ := expenses.Add(ctx, core.Expense{Title: "Milk", Amount: core.Money{Cents: 250}, Date: "2024-03-10"})

	// The error propagates so the delivery is nacked and requeued.
	if err := w.HandleExportMessage(ctx, amqp.NewExpenseExportMessage(created.ID)); err == nil {
		t.Fatal("writer failure must propagate")
	}
}
