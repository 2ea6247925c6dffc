package core

// BudgetTier classifies how much of the monthly budget has been used.
type BudgetTier string

const (
	TierOK       BudgetTier = "ok"       // under 70%
	TierWarning  BudgetTier = "warning"  // 70% to 89.99%
	TierCritical BudgetTier = "critical" // 90% and above
)

// TotalExpenses sums expense amounts. The result does not depend on the
// iteration order of the input.
func TotalExpenses(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// RemainingBalance returns budget minus total; negative when overspent.
func RemainingBalance(budget, total Money) Money {
	return Money{Cents: budget.Cents - total.Cents}
}

// UsedPercentage returns total/budget*100, or 0 when no budget is set.
// Callers clamp at 100 for progress displays; the raw value is returned here.
func UsedPercentage(total, budget Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	return float64(total.Cents) / float64(budget.Cents) * 100
}

// TierFor maps a used percentage onto a severity tier. Both boundaries are
// inclusive lower bounds: exactly 70.0 is warning, exactly 90.0 is critical.
func TierFor(usedPct float64) BudgetTier {
	switch {
	case usedPct >= 90:
		return TierCritical
	case usedPct >= 70:
		return TierWarning
	default:
		return TierOK
	}
}

// EqualShare splits the total equally among roommates, truncating to whole
// cents. Zero roommates cannot be split over.
func EqualShare(total Money, roommates int) (Money, error) {
	if roommates <= 0 {
		return Money{}, ErrNoRoommates
	}
	return Money{Cents: total.Cents / int64(roommates)}, nil
}
