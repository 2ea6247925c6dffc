package core

import (
	"testing"
	"time"
)

func expense(title, date string, cents int64) Expense {
	return Expense{Title: title, Date: date, Amount: Money{Cents: cents}}
}

func TestBuildMonthlyReportFiltersInclusive(t *testing.T) {
	expenses := []Expense{
		expense("first day", "2024-03-01", 1000),
		expense("last day", "2024-03-31", 2000),
		expense("previous month", "2024-02-29", 5000),
		expense("next month", "2024-04-01", 7000),
	}
	report := BuildMonthlyReport(expenses, 2024, time.March)
	if report.Total.Cents != 3000 {
		t.Fatalf("total = %d, want 3000 (both month boundaries inclusive)", report.Total.Cents)
	}
	if report.Transactions != 2 {
		t.Fatalf("transactions = %d, want 2", report.Transactions)
	}
}

func TestBuildMonthlyReportAggregates(t *testing.T) {
	expenses := []Expense{
		expense("Milk", "2024-03-05", 6000),
		expense("Vegetables", "2024-03-05", 3000),
		expense("Uber", "2024-03-10", 1000),
	}
	report := BuildMonthlyReport(expenses, 2024, time.March)

	if len(report.ByCategory) != 2 {
		t.Fatalf("categories = %d, want 2", len(report.ByCategory))
	}
	top := report.ByCategory[0]
	if top.Category != CategoryGroceries || top.Amount.Cents != 9000 {
		t.Fatalf("top category = %+v, want Groceries 9000", top)
	}
	if top.Percentage != 90.0 {
		t.Fatalf("top percentage = %v, want 90", top.Percentage)
	}

	if len(report.ByDay) != 31 {
		t.Fatalf("byDay length = %d, want 31 (full March grid)", len(report.ByDay))
	}
	if report.ByDay[4].Amount.Cents != 9000 { // day 5
		t.Fatalf("day 5 = %d, want 9000", report.ByDay[4].Amount.Cents)
	}
	if report.ByDay[0].Amount.Cents != 0 {
		t.Fatalf("day 1 should be zero, got %d", report.ByDay[0].Amount.Cents)
	}

	// 10000 cents over 31 days, truncated
	if report.DailyAverage.Cents != 10000/31 {
		t.Fatalf("daily average = %d, want %d", report.DailyAverage.Cents, int64(10000/31))
	}
}

func TestBuildMonthlyReportChangeFromPrevious(t *testing.T) {
	expenses := []Expense{
		expense("feb", "2024-02-10", 10000),
		expense("mar", "2024-03-10", 15000),
	}
	report := BuildMonthlyReport(expenses, 2024, time.March)
	if report.ChangeFromPrevious != 50.0 {
		t.Fatalf("change = %v, want 50", report.ChangeFromPrevious)
	}

	// Empty previous month: change reported as 0, not an error.
	only := []Expense{expense("mar", "2024-03-10", 15000)}
	report = BuildMonthlyReport(only, 2024, time.March)
	if report.ChangeFromPrevious != 0 {
		t.Fatalf("change with empty previous month = %v, want 0", report.ChangeFromPrevious)
	}
}

func TestBuildMonthlyReportJanuaryLooksAtDecember(t *testing.T) {
	expenses := []Expense{
		expense("dec", "2023-12-20", 10000),
		expense("jan", "2024-01-05", 5000),
	}
	report := BuildMonthlyReport(expenses, 2024, time.January)
	if report.ChangeFromPrevious != -50.0 {
		t.Fatalf("change = %v, want -50 (year boundary)", report.ChangeFromPrevious)
	}
}
