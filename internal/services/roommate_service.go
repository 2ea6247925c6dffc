package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roomledger/internal/core"
	"roomledger/internal/docstore"
)

// RoommateService manages the household roster and running balances.
// Roster changes are pushed into the water duty rotation so the
// rotation document never points at someone who left.
type RoommateService struct {
	store     docstore.Store
	hub       *docstore.Hub
	waterDuty *WaterDutyService
	now       func() time.Time
}

func NewRoommateService(store docstore.Store, hub *docstore.Hub, waterDuty *WaterDutyService) *RoommateService {
	return &RoommateService{store: store, hub: hub, waterDuty: waterDuty, now: time.Now}
}

// List returns all roommates in join order.
func (s *RoommateService) List(ctx context.Context) ([]core.Roommate, error) {
	docs, err := s.store.List(ctx, docstore.CollectionRoommates, docstore.Ascending)
	if err != nil {
		return nil, fmt.Errorf("list roommates: %w", err)
	}
	return decodeAll[core.Roommate](docs, func(r *core.Roommate, id string) { r.ID = id })
}

// Get returns one roommate by id.
func (s *RoommateService) Get(ctx context.Context, id string) (core.Roommate, error) {
	body, err := s.store.Get(ctx, docstore.CollectionRoommates, id)
	if err != nil {
		return core.Roommate{}, err
	}
	var roommate core.Roommate
	if err := decodeDoc(body, &roommate); err != nil {
		return core.Roommate{}, err
	}
	roommate.ID = id
	return roommate, nil
}

// Add stores a new roommate with a zero balance.
func (s *RoommateService) Add(ctx context.Context, roommate core.Roommate) (core.Roommate, error) {
	if err := roommate.Validate(); err != nil {
		return core.Roommate{}, err
	}

	roommate.ID = ""
	roommate.Balance = core.Money{}
	roommate.CreatedAt = core.Timestamp(s.now())
	roommate.UpdatedAt = ""

	body, err := encodeDoc(roommate)
	if err != nil {
		return core.Roommate{}, err
	}
	id, err := s.store.Insert(ctx, docstore.CollectionRoommates, roommate.CreatedAt, body)
	if err != nil {
		return core.Roommate{}, fmt.Errorf("save roommate: %w", err)
	}
	roommate.ID = id

	s.hub.Notify(ctx, docstore.CollectionRoommates)
	s.reconcileWaterDuty(ctx)
	return roommate, nil
}

// Delete removes a roommate from the roster.
func (s *RoommateService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, docstore.CollectionRoommates, id); err != nil {
		return err
	}
	s.hub.Notify(ctx, docstore.CollectionRoommates)
	s.reconcileWaterDuty(ctx)
	return nil
}

// SetBalance overwrites one roommate's balance.
func (s *RoommateService) SetBalance(ctx context.Context, id string, balance core.Money) (core.Roommate, error) {
	roommate, err := s.Get(ctx, id)
	if err != nil {
		return core.Roommate{}, err
	}

	roommate.Balance = balance
	roommate.UpdatedAt = core.Timestamp(s.now())
	if err := s.save(ctx, roommate); err != nil {
		return core.Roommate{}, err
	}

	s.hub.Notify(ctx, docstore.CollectionRoommates)
	return roommate, nil
}

// SplitEqually divides the current expense total over the roster,
// setting every balance to the equal share. The share truncates to
// whole cents, remainders stay unassigned.
func (s *RoommateService) SplitEqually(ctx context.Context) (core.Money, error) {
	docs, err := s.store.List(ctx, docstore.CollectionExpenses, docstore.Descending)
	if err != nil {
		return core.Money{}, fmt.Errorf("list expenses: %w", err)
	}
	expenses, err := decodeAll[core.Expense](docs, func(e *core.Expense, id string) { e.ID = id })
	if err != nil {
		return core.Money{}, err
	}

	roommates, err := s.List(ctx)
	if err != nil {
		return core.Money{}, err
	}

	share, err := core.EqualShare(core.TotalExpenses(expenses), len(roommates))
	if err != nil {
		return core.Money{}, err
	}

	stamp := core.Timestamp(s.now())
	for _, roommate := range roommates {
		roommate.Balance = share
		roommate.UpdatedAt = stamp
		if err := s.save(ctx, roommate); err != nil {
			return core.Money{}, err
		}
	}

	s.hub.Notify(ctx, docstore.CollectionRoommates)
	return share, nil
}

// ResetBalances zeroes every roommate balance.
func (s *RoommateService) ResetBalances(ctx context.Context) error {
	roommates, err := s.List(ctx)
	if err != nil {
		return err
	}

	stamp := core.Timestamp(s.now())
	for _, roommate := range roommates {
		roommate.Balance = core.Money{}
		roommate.UpdatedAt = stamp
		if err := s.save(ctx, roommate); err != nil {
			return err
		}
	}

	s.hub.Notify(ctx, docstore.CollectionRoommates)
	return nil
}

// Subscribe delivers the full roster snapshot immediately and again
// after every change until the returned detach function is called.
func (s *RoommateService) Subscribe(ctx context.Context, fn func([]core.Roommate)) func() {
	deliver := func() {
		roommates, err := s.List(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Failed to load roommate snapshot", "error", err)
			return
		}
		fn(roommates)
	}
	deliver()
	return s.hub.Subscribe(docstore.CollectionRoommates, deliver)
}

func (s *RoommateService) save(ctx context.Context, roommate core.Roommate) error {
	id := roommate.ID
	roommate.ID = ""
	body, err := encodeDoc(roommate)
	if err != nil {
		return err
	}
	if err := s.store.Update(ctx, docstore.CollectionRoommates, id, roommate.CreatedAt, body); err != nil {
		return fmt.Errorf("save roommate: %w", err)
	}
	return nil
}

func (s *RoommateService) reconcileWaterDuty(ctx context.Context) {
	if s.waterDuty == nil {
		return
	}
	if err := s.waterDuty.ReconcileRoster(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to reconcile water duty roster", "error", err)
	}
}
