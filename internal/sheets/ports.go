// Package sheets defines the outbound port for exporting expenses to a
// spreadsheet, with a Google Sheets adapter and an in-memory fake.
package sheets

import (
	"context"

	"roomledger/internal/core"
)

// ExpenseWriter appends one expense row to the export target.
type ExpenseWriter interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}
