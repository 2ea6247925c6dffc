package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily  Frequency = "daily"
	Weekly Frequency = "weekly"
)

type (
	// Frequency describes how often a cleaning task recurs.
	Frequency string

	// Budget is the singleton monthly budget document.
	Budget struct {
		Amount Money  `json:"amount"`
		SetAt  string `json:"setAt"`
		Month  int    `json:"month"` // 0-11, kept as the original client stored it
		Year   int    `json:"year"`
	}

	// Expense is a single shared expense record.
	Expense struct {
		ID        string `json:"id,omitempty"`
		Title     string `json:"title"`
		Amount    Money  `json:"amount"`
		Date      string `json:"date"` // YYYY-MM-DD
		AddedBy   string `json:"addedBy,omitempty"`
		UserID    string `json:"userId,omitempty"`
		CreatedAt string `json:"createdAt,omitempty"`
		UpdatedAt string `json:"updatedAt,omitempty"`
	}

	// Roommate is a member of the room with a running balance.
	Roommate struct {
		ID         string `json:"id,omitempty"`
		Name       string `json:"name"`
		Balance    Money  `json:"balance"`
		ProfilePic string `json:"profilePic,omitempty"`
		CreatedAt  string `json:"createdAt,omitempty"`
		UpdatedAt  string `json:"updatedAt,omitempty"`
	}

	// CleaningTask is a scheduled chore. Completion is additive: completing a
	// task keeps the completed record and spawns the next occurrence.
	CleaningTask struct {
		ID          string    `json:"id,omitempty"`
		Title       string    `json:"title"`
		AssignedTo  string    `json:"assignedTo"` // roommate name, advisory reference
		Frequency   Frequency `json:"frequency"`
		DueDate     string    `json:"dueDate"` // YYYY-MM-DD
		Completed   bool      `json:"completed"`
		CompletedAt string    `json:"completedAt,omitempty"`
		CreatedAt   string    `json:"createdAt,omitempty"`
	}
)

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyAssignee    = errors.New("empty assignee")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrTitleTooLong     = errors.New("title too long (max 200 characters)")
	ErrNameTooLong      = errors.New("name too long (max 100 characters)")
	ErrNoRoommates      = errors.New("no roommates")
	ErrNoWaterDuty      = errors.New("water duty not initialized")
)

// DateLayout is the wire format for expense dates and task due dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// TimestampLayout is RFC 3339 with fixed-width nanoseconds. Stamps are
// used as document sort keys, so equal-second stamps must still compare
// lexicographically in creation order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamp formats a time as the RFC 3339 string stamped on documents.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly:
		return true
	default:
		return false
	}
}

// NextDueDate advances a due date by one occurrence of the frequency.
func (f Frequency) NextDueDate(due time.Time) time.Time {
	if f == Daily {
		return due.AddDate(0, 0, 1)
	}
	return due.AddDate(0, 0, 7)
}

// DueStatus classifies a cleaning task against a reference day.
type DueStatus string

const (
	StatusCompleted DueStatus = "completed"
	StatusOverdue   DueStatus = "overdue"
	StatusDueToday  DueStatus = "dueToday"
	StatusUpcoming  DueStatus = "upcoming"
)

// DueStatusOf derives the display status of a task for a given day.
// Unparseable due dates count as upcoming rather than failing.
func DueStatusOf(t CleaningTask, today time.Time) DueStatus {
	if t.Completed {
		return StatusCompleted
	}
	due, err := ParseDate(t.DueDate)
	if err != nil {
		return StatusUpcoming
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case due.Before(day):
		return StatusOverdue
	case due.Equal(day):
		return StatusDueToday
	default:
		return StatusUpcoming
	}
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	return nil
}

func (r Roommate) Validate() error {
	if len(strings.TrimSpace(r.Name)) == 0 {
		return ErrEmptyName
	}
	if len(r.Name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

func (t CleaningTask) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(strings.TrimSpace(t.AssignedTo)) == 0 {
		return ErrEmptyAssignee
	}
	if !t.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	if _, err := ParseDate(t.DueDate); err != nil {
		return err
	}
	return nil
}
