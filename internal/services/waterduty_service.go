package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roomledger/internal/core"
	"roomledger/internal/docstore"
)

// WaterDutyService manages the singleton water duty rotation.
type WaterDutyService struct {
	store docstore.Store
	hub   *docstore.Hub
	now   func() time.Time
}

func NewWaterDutyService(store docstore.Store, hub *docstore.Hub) *WaterDutyService {
	return &WaterDutyService{store: store, hub: hub, now: time.Now}
}

// Get returns the rotation, or ErrNoWaterDuty when never initialized.
func (s *WaterDutyService) Get(ctx context.Context) (core.WaterDuty, error) {
	body, err := s.store.Get(ctx, docstore.CollectionWaterDuty, docstore.SingletonID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return core.WaterDuty{}, core.ErrNoWaterDuty
		}
		return core.WaterDuty{}, fmt.Errorf("load water duty: %w", err)
	}

	var duty core.WaterDuty
	if err := decodeDoc(body, &duty); err != nil {
		return core.WaterDuty{}, err
	}
	return duty, nil
}

// Initialize starts a fresh rotation over the current roster, first
// person first. Requires at least one roommate.
func (s *WaterDutyService) Initialize(ctx context.Context) (core.WaterDuty, error) {
	members, err := s.rosterMembers(ctx)
	if err != nil {
		return core.WaterDuty{}, err
	}

	duty, err := core.NewWaterDuty(members, s.now())
	if err != nil {
		return core.WaterDuty{}, err
	}

	if err := s.save(ctx, duty); err != nil {
		return core.WaterDuty{}, err
	}
	s.hub.Notify(ctx, docstore.CollectionWaterDuty)
	return duty, nil
}

// Complete marks the current turn done and advances the rotation. A
// rotation that was never initialized is initialized on the fly so the
// first completion works without an explicit setup step.
func (s *WaterDutyService) Complete(ctx context.Context) (core.WaterDuty, error) {
	duty, err := s.Get(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrNoWaterDuty) {
			return core.WaterDuty{}, err
		}
		duty, err = s.Initialize(ctx)
		if err != nil {
			return core.WaterDuty{}, err
		}
	}

	duty.Complete(s.now())

	if err := s.save(ctx, duty); err != nil {
		return core.WaterDuty{}, err
	}
	s.hub.Notify(ctx, docstore.CollectionWaterDuty)
	return duty, nil
}

// ReconcileRoster rebases the rotation onto the current roommate list.
// A missing rotation is started fresh as soon as the roster is non-empty.
func (s *WaterDutyService) ReconcileRoster(ctx context.Context) error {
	members, err := s.rosterMembers(ctx)
	if err != nil {
		return err
	}

	duty, err := s.Get(ctx)
	if err != nil {
		if !errors.Is(err, core.ErrNoWaterDuty) {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		_, err = s.Initialize(ctx)
		return err
	}

	duty.Reconcile(members)
	if err := s.save(ctx, duty); err != nil {
		return err
	}
	s.hub.Notify(ctx, docstore.CollectionWaterDuty)
	return nil
}

// Subscribe delivers the rotation immediately and again after every
// change until the returned detach function is called. A missing
// rotation is delivered as nil.
func (s *WaterDutyService) Subscribe(ctx context.Context, fn func(*core.WaterDuty)) func() {
	deliver := func() {
		duty, err := s.Get(ctx)
		if err != nil {
			if !errors.Is(err, core.ErrNoWaterDuty) {
				slog.WarnContext(ctx, "Failed to load water duty snapshot", "error", err)
			}
			fn(nil)
			return
		}
		fn(&duty)
	}
	deliver()
	return s.hub.Subscribe(docstore.CollectionWaterDuty, deliver)
}

func (s *WaterDutyService) rosterMembers(ctx context.Context) ([]core.DutyMember, error) {
	docs, err := s.store.List(ctx, docstore.CollectionRoommates, docstore.Ascending)
	if err != nil {
		return nil, fmt.Errorf("list roommates: %w", err)
	}
	roommates, err := decodeAll[core.Roommate](docs, func(r *core.Roommate, id string) { r.ID = id })
	if err != nil {
		return nil, err
	}
	return core.Members(roommates), nil
}

func (s *WaterDutyService) save(ctx context.Context, duty core.WaterDuty) error {
	body, err := encodeDoc(duty)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, docstore.CollectionWaterDuty, docstore.SingletonID, "", body); err != nil {
		return fmt.Errorf("save water duty: %w", err)
	}
	return nil
}
