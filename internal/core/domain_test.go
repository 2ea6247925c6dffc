package core

import (
	"errors"
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{Title: "Rice", Amount: Money{Cents: 25000}, Date: "2024-03-01"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		e    Expense
		want error
	}{
		{Expense{Title: "  ", Amount: Money{Cents: 100}, Date: "2024-03-01"}, ErrEmptyTitle},
		{Expense{Title: "Rice", Amount: Money{Cents: 0}, Date: "2024-03-01"}, ErrInvalidAmount},
		{Expense{Title: "Rice", Amount: Money{Cents: -1}, Date: "2024-03-01"}, ErrInvalidAmount},
		{Expense{Title: "Rice", Amount: Money{Cents: 100}, Date: "not-a-date"}, ErrInvalidDate},
	}
	for i, tc := range cases {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestRoommateValidate(t *testing.T) {
	if err := (Roommate{Name: "Asha"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Roommate{Name: "   "}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("got %v, want ErrEmptyName", err)
	}
}

func TestCleaningTaskValidate(t *testing.T) {
	good := CleaningTask{Title: "Mopping Floor", AssignedTo: "Asha", Frequency: Weekly, DueDate: "2024-03-04"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		task CleaningTask
		want error
	}{
		{CleaningTask{Title: "", AssignedTo: "Asha", Frequency: Daily, DueDate: "2024-03-04"}, ErrEmptyTitle},
		{CleaningTask{Title: "Trash", AssignedTo: "", Frequency: Daily, DueDate: "2024-03-04"}, ErrEmptyAssignee},
		{CleaningTask{Title: "Trash", AssignedTo: "Asha", Frequency: "monthly", DueDate: "2024-03-04"}, ErrInvalidFrequency},
		{CleaningTask{Title: "Trash", AssignedTo: "Asha", Frequency: Daily, DueDate: "bad"}, ErrInvalidDate},
	}
	for i, tc := range cases {
		if err := tc.task.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestDueStatusOf(t *testing.T) {
	today := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		task CleaningTask
		want DueStatus
	}{
		{"completed wins", CleaningTask{Completed: true, DueDate: "2024-03-01"}, StatusCompleted},
		{"past due", CleaningTask{DueDate: "2024-03-14"}, StatusOverdue},
		{"due today", CleaningTask{DueDate: "2024-03-15"}, StatusDueToday},
		{"future", CleaningTask{DueDate: "2024-03-16"}, StatusUpcoming},
		{"bad date", CleaningTask{DueDate: "soon"}, StatusUpcoming},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DueStatusOf(tc.task, today); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestTimestampSortsByCreationOrder(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	stamps := []string{
		Timestamp(base),
		Timestamp(base.Add(time.Microsecond)),
		Timestamp(base.Add(500 * time.Millisecond)),
		Timestamp(base.Add(time.Second)),
	}
	for i := 1; i < len(stamps); i++ {
		if stamps[i-1] >= stamps[i] {
			t.Fatalf("stamps out of order: %q >= %q", stamps[i-1], stamps[i])
		}
	}
	if _, err := time.Parse(time.RFC3339, stamps[0]); err != nil {
		t.Fatalf("stamp is not RFC 3339: %v", err)
	}
}

func TestFrequencyNextDueDate(t *testing.T) {
	due := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := Daily.NextDueDate(due); got.Format(DateLayout) != "2024-03-05" {
		t.Fatalf("daily next = %s, want 2024-03-05", got.Format(DateLayout))
	}
	if got := Weekly.NextDueDate(due); got.Format(DateLayout) != "2024-03-11" {
		t.Fatalf("weekly next = %s, want 2024-03-11", got.Format(DateLayout))
	}
}
