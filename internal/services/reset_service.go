package services

import (
	"context"
	"fmt"
)

// ResetService performs the start-of-month cleanup: drop every expense
// and zero every balance. The budget, chores and rotation survive.
type ResetService struct {
	expenses  *ExpenseService
	roommates *RoommateService
}

func NewResetService(expenses *ExpenseService, roommates *RoommateService) *ResetService {
	return &ResetService{expenses: expenses, roommates: roommates}
}

// MonthlyReset clears expenses first, then balances. The two steps are
// not atomic; a failure between them leaves balances from the old month
// which the next reset cleans up.
func (s *ResetService) MonthlyReset(ctx context.Context) error {
	if err := s.expenses.Clear(ctx); err != nil {
		return fmt.Errorf("monthly reset: %w", err)
	}
	if err := s.roommates.ResetBalances(ctx); err != nil {
		return fmt.Errorf("monthly reset: %w", err)
	}
	return nil
}
