package services

import (
	"context"
	"errors"
	"testing"

	"roomledger/internal/core"
)

func TestCleaningAddAndListByDueDate(t *testing.T) {
	store, hub := newTestBackend(t)
	svc := NewCleaningService(store, hub)
	ctx := context.Background()

	svc.Add(ctx, core.CleaningTask{Title: "Bathroom", AssignedTo: "Bob", Frequency: core.Weekly, DueDate: "2024-03-20"})
	svc.Add(ctx, core.CleaningTask{Title: "Kitchen", AssignedTo: "Alice", Frequency: core.Daily, DueDate: "2024-03-10"})

	tasks, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "Kitchen" {
		t.Fatalf("tasks must come back soonest first: %+v", tasks)
	}
}

func TestCleaningAddValidation(t *testing.T) {
	store, hub := newTestBackend(t)
	svc := NewCleaningService(store, hub)
	ctx := context.Background()

	tests := []struct {
		name    string
		task    core.CleaningTask
		wantErr error
	}{
		{"empty title", core.CleaningTask{AssignedTo: "Bob", Frequency: core.Daily, DueDate: "2024-03-10"}, core.ErrEmptyTitle},
		{"empty assignee", core.CleaningTask{Title: "Kitchen", Frequency: core.Daily, DueDate: "2024-03-10"}, core.ErrEmptyAssignee},
		{"bad frequency", core.CleaningTask{Title: "Kitchen", AssignedTo: "Bob", Frequency: "monthly", DueDate: "2024-03-10"}, core.ErrInvalidFrequency},
		{"bad date", core.CleaningTask{Title: "Kitchen", AssignedTo: "Bob", Frequency: core.Daily, DueDate: "soon"}, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Add(ctx, tt.task); !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCleaningCompleteSpawnsNextOccurrence(t *testing.T) {
	store, hub := newTestBackend(t)
	svc := NewCleaningService(store, hub)
	svc.now = fixedNow
	ctx := context.Background()

	daily, _ := svc.Add(ctx, core.CleaningTask{Title: "Dishes", AssignedTo: "Alice", Frequency: core.Daily, DueDate: "2024-03-15"})
	weekly, _ := svc.Add(ctx, core.CleaningTask{Title: "Bathroom", AssignedTo: "Bob", Frequency: core.Weekly, DueDate: "2024-03-15"})

	done, err := svc.SetStatus(ctx, daily.ID, true)
	if err != nil {
		t.Fatalf("complete daily: %v", err)
	}
	if !done.Completed || done.CompletedAt == "" {
		t.Fatalf("completion not stamped: %+v", done)
	}
	if _, err := svc.SetStatus(ctx, weekly.ID, true); err != nil {
		t.Fatalf("complete weekly: %v", err)
	}

	tasks, _ := svc.List(ctx)
	if len(tasks) != 4 {
		t.Fatalf("completing must keep the record and spawn the next occurrence, got %d tasks", len(tasks))
	}

	dueDates := map[string]bool{}
	for _, task := range tasks {
		if !task.Completed {
			dueDates[task.DueDate] = true
			if task.CompletedAt != "" {
				t.Fatalf("spawned occurrence must be pending: %+v", task)
			}
		}
	}
	if !dueDates["2024-03-16"] {
		t.Fatal("daily task should respawn one day later")
	}
	if !dueDates["2024-03-22"] {
		t.Fatal("weekly task should respawn one week later")
	}
}

func TestCleaningUncompleteDoesNotSpawn(t *testing.T) {
	store, hub := newTestBackend(t)
	svc := NewCleaningService(store, hub)
	ctx := context.Background()

	task, _ := svc.Add(ctx, core.CleaningTask{Title: "Dishes", AssignedTo: "Alice", Frequency: core.Daily, DueDate: "2024-03-15"})
	svc.SetStatus(ctx, task.ID, true)

	// Toggling back to pending clears the stamp without another spawn.
	reverted, err := svc.SetStatus(ctx, task.ID, false)
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.Completed || reverted.CompletedAt != "" {
		t.Fatalf("revert not applied: %+v", reverted)
	}

	tasks, _ := svc.List(ctx)
	if len(tasks) != 2 {
		t.Fatalf("revert must not spawn again, got %d tasks", len(tasks))
	}

	// Completing an already completed task again must not spawn either.
	svc.SetStatus(ctx, task.ID, true)
	svc.SetStatus(ctx, task.ID, true)
	tasks, _ = svc.List(ctx)
	if len(tasks) != 3 {
		t.Fatalf("re-completing spawned extra occurrences, got %d tasks", len(tasks))
	}
}

func TestCleaningDelete(t *testing.T) {
	store, hub := newTestBackend(t)
	svc := NewCleaningService(store, hub)
	ctx := context.Background()

	task, _ := svc.Add(ctx, core.CleaningTask{Title: "Dishes", AssignedTo: "Alice", Frequency: core.Daily, DueDate: "2024-03-15"})
	if err := svc.Delete(ctx, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks, _ := svc.List(ctx)
	if len(tasks) != 0 {
		t.Fatalf("task should be gone, got %d", len(tasks))
	}
}
