package core

import (
	"sort"
	"time"
)

type (
	// CategoryAmount is one slice of the category breakdown.
	CategoryAmount struct {
		Category   Category `json:"category"`
		Amount     Money    `json:"amount"`
		Percentage float64  `json:"percentage"`
	}

	// DayAmount is the spend on one day of the month; days without expenses
	// carry a zero amount so charts render the full grid.
	DayAmount struct {
		Day    int   `json:"day"`
		Amount Money `json:"amount"`
	}

	// MonthlyReport aggregates one calendar month of expenses.
	MonthlyReport struct {
		Year               int              `json:"year"`
		Month              int              `json:"month"` // 1-12
		Total              Money            `json:"total"`
		Transactions       int              `json:"transactions"`
		DailyAverage       Money            `json:"dailyAverage"`
		ByCategory         []CategoryAmount `json:"byCategory"`
		ByDay              []DayAmount      `json:"byDay"`
		ChangeFromPrevious float64          `json:"changeFromPrevious"` // percent vs previous month
	}
)

// daysIn returns the number of days in a calendar month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// inMonth reports whether a wire date falls inside the month, using inclusive
// [first day, last day] bounds. Unparseable dates are excluded.
func inMonth(date string, year int, month time.Month) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return !d.Before(start) && !d.After(end)
}

// BuildMonthlyReport computes the analytics snapshot for one month from the
// full expense set. The comparison baseline is the immediately preceding
// calendar month; an empty previous month yields a 0% change.
func BuildMonthlyReport(expenses []Expense, year int, month time.Month) MonthlyReport {
	report := MonthlyReport{Year: year, Month: int(month)}

	byCategory := make(map[Category]int64)
	byDay := make(map[int]int64)
	for _, e := range expenses {
		if !inMonth(e.Date, year, month) {
			continue
		}
		report.Total.Cents += e.Amount.Cents
		report.Transactions++
		byCategory[InferCategory(e.Title)] += e.Amount.Cents
		if d, err := ParseDate(e.Date); err == nil {
			byDay[d.Day()] += e.Amount.Cents
		}
	}

	days := daysIn(year, month)
	report.DailyAverage = Money{Cents: report.Total.Cents / int64(days)}

	for cat, cents := range byCategory {
		pct := 0.0
		if report.Total.Cents > 0 {
			pct = float64(cents) / float64(report.Total.Cents) * 100
		}
		report.ByCategory = append(report.ByCategory, CategoryAmount{
			Category:   cat,
			Amount:     Money{Cents: cents},
			Percentage: pct,
		})
	}
	sort.Slice(report.ByCategory, func(i, j int) bool {
		if report.ByCategory[i].Amount.Cents != report.ByCategory[j].Amount.Cents {
			return report.ByCategory[i].Amount.Cents > report.ByCategory[j].Amount.Cents
		}
		return report.ByCategory[i].Category < report.ByCategory[j].Category
	})

	for day := 1; day <= days; day++ {
		report.ByDay = append(report.ByDay, DayAmount{Day: day, Amount: Money{Cents: byDay[day]}})
	}

	prevStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	var prevTotal int64
	for _, e := range expenses {
		if inMonth(e.Date, prevStart.Year(), prevStart.Month()) {
			prevTotal += e.Amount.Cents
		}
	}
	if prevTotal > 0 {
		report.ChangeFromPrevious = float64(report.Total.Cents-prevTotal) / float64(prevTotal) * 100
	}

	return report
}
