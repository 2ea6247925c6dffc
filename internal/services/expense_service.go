package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roomledger/internal/core"
	"roomledger/internal/docstore"
)

// ExportPublisher queues an expense for the Sheets export worker. The
// AMQP client implements it; a nil publisher disables exporting.
type ExportPublisher interface {
	PublishExpenseExport(ctx context.Context, id string) error
}

// ExpenseService manages the shared expense list.
type ExpenseService struct {
	store     docstore.Store
	hub       *docstore.Hub
	publisher ExportPublisher
	now       func() time.Time
}

func NewExpenseService(store docstore.Store, hub *docstore.Hub, publisher ExportPublisher) *ExpenseService {
	return &ExpenseService{store: store, hub: hub, publisher: publisher, now: time.Now}
}

// List returns all expenses ordered by date, newest first.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	docs, err := s.store.List(ctx, docstore.CollectionExpenses, docstore.Descending)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return decodeAll[core.Expense](docs, func(e *core.Expense, id string) { e.ID = id })
}

// Get returns one expense by id.
func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	body, err := s.store.Get(ctx, docstore.CollectionExpenses, id)
	if err != nil {
		return core.Expense{}, err
	}
	var expense core.Expense
	if err := decodeDoc(body, &expense); err != nil {
		return core.Expense{}, err
	}
	expense.ID = id
	return expense, nil
}

// Add validates and stores a new expense, then queues it for export.
// A failed export publish never fails the request, the expense is
// already committed locally.
func (s *ExpenseService) Add(ctx context.Context, expense core.Expense) (core.Expense, error) {
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	expense.ID = ""
	expense.CreatedAt = core.Timestamp(s.now())
	expense.UpdatedAt = ""

	body, err := encodeDoc(expense)
	if err != nil {
		return core.Expense{}, err
	}
	id, err := s.store.Insert(ctx, docstore.CollectionExpenses, expense.Date, body)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	expense.ID = id

	s.hub.Notify(ctx, docstore.CollectionExpenses)

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseExport(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish export message",
				"id", id, "error", err)
		}
	}

	return expense, nil
}

// Update overwrites an existing expense, keeping its author and
// creation stamp. Edits change what was bought, not who recorded it.
func (s *ExpenseService) Update(ctx context.Context, id string, expense core.Expense) (core.Expense, error) {
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	expense.ID = ""
	expense.AddedBy = existing.AddedBy
	expense.UserID = existing.UserID
	expense.CreatedAt = existing.CreatedAt
	expense.UpdatedAt = core.Timestamp(s.now())

	body, err := encodeDoc(expense)
	if err != nil {
		return core.Expense{}, err
	}
	if err := s.store.Update(ctx, docstore.CollectionExpenses, id, expense.Date, body); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	expense.ID = id

	s.hub.Notify(ctx, docstore.CollectionExpenses)
	return expense, nil
}

// Delete removes one expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, docstore.CollectionExpenses, id); err != nil {
		return err
	}
	s.hub.Notify(ctx, docstore.CollectionExpenses)
	return nil
}

// Clear removes every expense, used by the monthly reset.
func (s *ExpenseService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx, docstore.CollectionExpenses); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	s.hub.Notify(ctx, docstore.CollectionExpenses)
	return nil
}

// Subscribe delivers the full expense snapshot immediately and again
// after every change until the returned detach function is called.
func (s *ExpenseService) Subscribe(ctx context.Context, fn func([]core.Expense)) func() {
	deliver := func() {
		expenses, err := s.List(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Failed to load expense snapshot", "error", err)
			return
		}
		fn(expenses)
	}
	deliver()
	return s.hub.Subscribe(docstore.CollectionExpenses, deliver)
}
