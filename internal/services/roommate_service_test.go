package services

import (
	"context"
	"errors"
	"testing"

	"roomledger/internal/core"
)

func newRoommateFixture(t *testing.T) (*RoommateService, *ExpenseService, *WaterDutyService) {
	t.Helper()
	store, hub := newTestBackend(t)
	waterDuty := NewWaterDutyService(store, hub)
	roommates := NewRoommateService(store, hub, waterDuty)
	expenses := NewExpenseService(store, hub, nil)
	return roommates, expenses, waterDuty
}

func TestRoommateAddStartsAtZeroBalance(t *testing.T) {
	roommates, _, _ := newRoommateFixture(t)
	ctx := context.Background()

	added, err := roommates.Add(ctx, core.Roommate{Name: "Alice", Balance: core.Money{Cents: 9999}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.Balance.Cents != 0 {
		t.Fatalf("new roommates always start at zero, got %d", added.Balance.Cents)
	}
	if added.CreatedAt == "" {
		t.Fatal("createdAt must be stamped")
	}
}

func TestRoommateListKeepsJoinOrder(t *testing.T) {
	roommates, _, _ := newRoommateFixture(t)
	ctx := context.Background()

	// Joins land within the same second; the list must still come back
	// in arrival order.
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	for _, name := range names {
		if _, err := roommates.Add(ctx, core.Roommate{Name: name}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	list, err := roommates.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != len(names) {
		t.Fatalf("len = %d, want %d", len(list), len(names))
	}
	for i, r := range list {
		if r.Name != names[i] {
			t.Fatalf("position %d: got %s, want %s", i, r.Name, names[i])
		}
	}
}

func TestRoommateAddValidation(t *testing.T) {
	roommates, _, _ := newRoommateFixture(t)
	if _, err := roommates.Add(context.Background(), core.Roommate{Name: "   "}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("got %v, want ErrEmptyName", err)
	}
}

func TestRoommateSplitEqually(t *testing.T) {
	roommates, expenses, _ := newRoommateFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if _, err := roommates.Add(ctx, core.Roommate{Name: name}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	expenses.Add(ctx, core.Expense{Title: "Rent", Amount: core.Money{Cents: 90000}, Date: "2024-03-01"})
	expenses.Add(ctx, core.Expense{Title: "Internet", Amount: core.Money{Cents: 3001}, Date: "2024-03-02"})

	share, err := roommates.SplitEqually(ctx)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	// 93001 / 3 truncates to 31000.
	if share.Cents != 31000 {
		t.Fatalf("share = %d, want 31000", share.Cents)
	}

	list, _ := roommates.List(ctx)
	for _, r := range list {
		if r.Balance.Cents != 31000 {
			t.Fatalf("%s balance = %d, want the equal share", r.Name, r.Balance.Cents)
		}
	}
}

func TestRoommateSplitWithoutRoommates(t *testing.T) {
	roommates, expenses, _ := newRoommateFixture(t)
	ctx := context.Background()

	expenses.Add(ctx, core.Expense{Title: "Rent", Amount: core.Money{Cents: 90000}, Date: "2024-03-01"})
	if _, err := roommates.SplitEqually(ctx); !errors.Is(err, core.ErrNoRoommates) {
		t.Fatalf("got %v, want ErrNoRoommates", err)
	}
}

func TestRoommateResetBalances(t *testing.T) {
	roommates, expenses, _ := newRoommateFixture(t)
	ctx := context.Background()

	roommates.Add(ctx, core.Roommate{Name: "Alice"})
	roommates.Add(ctx, core.Roommate{Name: "Bob"})
	expenses.Add(ctx, core.Expense{Title: "Rent", Amount: core.Money{Cents: 50000}, Date: "2024-03-01"})
	if _, err := roommates.SplitEqually(ctx); err != nil {
		t.Fatalf("split: %v", err)
	}

	if err := roommates.ResetBalances(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	list, _ := roommates.List(ctx)
	for _, r := range list {
		if r.Balance.Cents != 0 {
			t.Fatalf("%s balance = %d after reset", r.Name, r.Balance.Cents)
		}
	}
}

func TestRoommateDeleteReconcilesWaterDuty(t *testing.T) {
	roommates, _, waterDuty := newRoommateFixture(t)
	ctx := context.Background()

	alice, _ := roommates.Add(ctx, core.Roommate{Name: "Alice"})
	roommates.Add(ctx, core.Roommate{Name: "Bob"})

	if _, err := waterDuty.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// Alice holds the current turn; removing her must hand it to Bob.
	if err := roommates.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	duty, err := waterDuty.Get(ctx)
	if err != nil {
		t.Fatalf("get duty: %v", err)
	}
	if duty.CurrentPerson != "Bob" || len(duty.Roommates) != 1 {
		t.Fatalf("rotation not reconciled: %+v", duty)
	}
}

func TestRoommateSetBalance(t *testing.T) {
	roommates, _, _ := newRoommateFixture(t)
	ctx := context.Background()

	alice, _ := roommates.Add(ctx, core.Roommate{Name: "Alice"})
	updated, err := roommates.SetBalance(ctx, alice.ID, core.Money{Cents: -1500})
	if err != nil {
		t.Fatalf("set balance: %v", err)
	}
	if updated.Balance.Cents != -1500 {
		t.Fatalf("balance = %d, negative balances are allowed", updated.Balance.Cents)
	}

	reloaded, _ := roommates.Get(ctx, alice.ID)
	if reloaded.Balance.Cents != -1500 {
		t.Fatal("balance not persisted")
	}
}
