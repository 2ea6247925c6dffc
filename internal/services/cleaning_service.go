package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roomledger/internal/core"
	"roomledger/internal/docstore"
)

// CleaningService manages the recurring chore list. Completing a task
// is additive: the completed record stays for the history view and the
// next occurrence is spawned with an advanced due date.
type CleaningService struct {
	store docstore.Store
	hub   *docstore.Hub
	now   func() time.Time
}

func NewCleaningService(store docstore.Store, hub *docstore.Hub) *CleaningService {
	return &CleaningService{store: store, hub: hub, now: time.Now}
}

// List returns all cleaning tasks ordered by due date, soonest first.
func (s *CleaningService) List(ctx context.Context) ([]core.CleaningTask, error) {
	docs, err := s.store.List(ctx, docstore.CollectionCleaning, docstore.Ascending)
	if err != nil {
		return nil, fmt.Errorf("list cleaning tasks: %w", err)
	}
	return decodeAll[core.CleaningTask](docs, func(t *core.CleaningTask, id string) { t.ID = id })
}

// Get returns one cleaning task by id.
func (s *CleaningService) Get(ctx context.Context, id string) (core.CleaningTask, error) {
	body, err := s.store.Get(ctx, docstore.CollectionCleaning, id)
	if err != nil {
		return core.CleaningTask{}, err
	}
	var task core.CleaningTask
	if err := decodeDoc(body, &task); err != nil {
		return core.CleaningTask{}, err
	}
	task.ID = id
	return task, nil
}

// Add validates and stores a new pending task.
func (s *CleaningService) Add(ctx context.Context, task core.CleaningTask) (core.CleaningTask, error) {
	if err := task.Validate(); err != nil {
		return core.CleaningTask{}, err
	}

	task.ID = ""
	task.Completed = false
	task.CompletedAt = ""
	task.CreatedAt = core.Timestamp(s.now())

	body, err := encodeDoc(task)
	if err != nil {
		return core.CleaningTask{}, err
	}
	id, err := s.store.Insert(ctx, docstore.CollectionCleaning, task.DueDate, body)
	if err != nil {
		return core.CleaningTask{}, fmt.Errorf("save cleaning task: %w", err)
	}
	task.ID = id

	s.hub.Notify(ctx, docstore.CollectionCleaning)
	return task, nil
}

// SetStatus toggles completion. Marking a pending task complete stamps
// it and spawns the next occurrence with the due date advanced by the
// task frequency. Marking it pending again only clears the stamp, any
// spawned occurrence stays.
func (s *CleaningService) SetStatus(ctx context.Context, id string, completed bool) (core.CleaningTask, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return core.CleaningTask{}, err
	}

	spawnNext := completed && !task.Completed

	task.Completed = completed
	if completed {
		task.CompletedAt = core.Timestamp(s.now())
	} else {
		task.CompletedAt = ""
	}

	if err := s.save(ctx, task); err != nil {
		return core.CleaningTask{}, err
	}

	if spawnNext {
		if err := s.spawnNextOccurrence(ctx, task); err != nil {
			slog.ErrorContext(ctx, "Failed to spawn next task occurrence",
				"id", task.ID, "error", err)
		}
	}

	s.hub.Notify(ctx, docstore.CollectionCleaning)
	return task, nil
}

// Delete removes one cleaning task.
func (s *CleaningService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, docstore.CollectionCleaning, id); err != nil {
		return err
	}
	s.hub.Notify(ctx, docstore.CollectionCleaning)
	return nil
}

// Subscribe delivers the full task snapshot immediately and again after
// every change until the returned detach function is called.
func (s *CleaningService) Subscribe(ctx context.Context, fn func([]core.CleaningTask)) func() {
	deliver := func() {
		tasks, err := s.List(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Failed to load cleaning task snapshot", "error", err)
			return
		}
		fn(tasks)
	}
	deliver()
	return s.hub.Subscribe(docstore.CollectionCleaning, deliver)
}

func (s *CleaningService) spawnNextOccurrence(ctx context.Context, completed core.CleaningTask) error {
	due, err := core.ParseDate(completed.DueDate)
	if err != nil {
		return err
	}

	next := core.CleaningTask{
		Title:      completed.Title,
		AssignedTo: completed.AssignedTo,
		Frequency:  completed.Frequency,
		DueDate:    completed.Frequency.NextDueDate(due).Format(core.DateLayout),
		CreatedAt:  core.Timestamp(s.now()),
	}

	body, err := encodeDoc(next)
	if err != nil {
		return err
	}
	if _, err := s.store.Insert(ctx, docstore.CollectionCleaning, next.DueDate, body); err != nil {
		return fmt.Errorf("save next occurrence: %w", err)
	}
	return nil
}

func (s *CleaningService) save(ctx context.Context, task core.CleaningTask) error {
	id := task.ID
	task.ID = ""
	body, err := encodeDoc(task)
	if err != nil {
		return err
	}
	if err := s.store.Update(ctx, docstore.CollectionCleaning, id, task.DueDate, body); err != nil {
		return fmt.Errorf("save cleaning task: %w", err)
	}
	return nil
}
