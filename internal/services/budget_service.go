package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomledger/internal/core"
	"roomledger/internal/docstore"
)

var ErrNoBudget = errors.New("no budget set")

// BudgetService manages the singleton monthly budget document.
type BudgetService struct {
	store docstore.Store
	hub   *docstore.Hub
	now   func() time.Time
}

func NewBudgetService(store docstore.Store, hub *docstore.Hub) *BudgetService {
	return &BudgetService{store: store, hub: hub, now: time.Now}
}

// Get returns the current budget, or ErrNoBudget when none was set yet.
func (s *BudgetService) Get(ctx context.Context) (core.Budget, error) {
	body, err := s.store.Get(ctx, docstore.CollectionBudget, docstore.SingletonID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return core.Budget{}, ErrNoBudget
		}
		return core.Budget{}, fmt.Errorf("load budget: %w", err)
	}

	var budget core.Budget
	if err := decodeDoc(body, &budget); err != nil {
		return core.Budget{}, err
	}
	return budget, nil
}

// Set overwrites the budget wholesale under the fixed singleton id.
func (s *BudgetService) Set(ctx context.Context, amount core.Money) (core.Budget, error) {
	if err := amount.Validate(); err != nil {
		return core.Budget{}, err
	}

	now := s.now()
	budget := core.Budget{
		Amount: amount,
		SetAt:  core.Timestamp(now),
		Month:  int(now.Month()) - 1,
		Year:   now.Year(),
	}

	body, err := encodeDoc(budget)
	if err != nil {
		return core.Budget{}, err
	}
	if err := s.store.Put(ctx, docstore.CollectionBudget, docstore.SingletonID, "", body); err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}

	s.hub.Notify(ctx, docstore.CollectionBudget)
	return budget, nil
}

// BudgetStatus is the derived budget overview served to clients.
type BudgetStatus struct {
	Budget    *core.Budget    `json:"budget"`
	Total     core.Money      `json:"total"`
	Remaining core.Money      `json:"remaining"`
	UsedPct   float64         `json:"usedPercentage"`
	Tier      core.BudgetTier `json:"tier"`
}

// Status combines the budget with the current expense total. A missing
// budget still reports the total with a zero remaining balance.
func (s *BudgetService) Status(ctx context.Context) (BudgetStatus, error) {
	docs, err := s.store.List(ctx, docstore.CollectionExpenses, docstore.Descending)
	if err != nil {
		return BudgetStatus{}, fmt.Errorf("load expenses: %w", err)
	}
	expenses, err := decodeAll[core.Expense](docs, func(e *core.Expense, id string) { e.ID = id })
	if err != nil {
		return BudgetStatus{}, err
	}

	total := core.TotalExpenses(expenses)
	status := BudgetStatus{
		Total: total,
		Tier:  core.TierOK,
	}

	budget, err := s.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNoBudget) {
			return status, nil
		}
		return BudgetStatus{}, err
	}

	status.Budget = &budget
	status.Remaining = core.RemainingBalance(budget.Amount, total)
	status.UsedPct = core.UsedPercentage(total, budget.Amount)
	status.Tier = core.TierFor(status.UsedPct)
	return status, nil
}

// Subscribe delivers the current budget immediately and again after every
// change until the returned detach function is called. A missing budget
// is delivered as nil.
func (s *BudgetService) Subscribe(ctx context.Context, fn func(*core.Budget)) func() {
	deliver := func() {
		budget, err := s.Get(ctx)
		if err != nil {
			fn(nil)
			return
		}
		fn(&budget)
	}
	deliver()
	return s.hub.Subscribe(docstore.CollectionBudget, deliver)
}
