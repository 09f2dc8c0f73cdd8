// Package sheets defines the outbound ports for archiving closed periods to
// a spreadsheet, and the row layout they share.
package sheets

import (
	"context"
	"time"

	"pocket/internal/core"
	"pocket/internal/currency"
)

// Ports for outbound adapters.
type (
	// HistoryWriter appends one archived period, one row per expense.
	HistoryWriter interface {
		AppendHistory(ctx context.Context, item core.HistoryItem, code currency.Code) (rowRef string, err error)
	}

	// ArchiveLister reports which periods have already been written, so a
	// redelivered event does not duplicate rows.
	ArchiveLister interface {
		ArchivedIDs(ctx context.Context) ([]string, error)
	}
)

// Header is the first row of an archive sheet.
var Header = []any{"HistoryID", "ResetDate", "ExpenseID", "Date", "Category", "Amount", "Note", "AccountId", "Currency"}

const dateLayout = "2006-01-02 15:04:05"

// HistoryRows lays out an archived period as spreadsheet rows. Amounts are
// numbers so sheet formulas can sum them.
func HistoryRows(item core.HistoryItem, code currency.Code) [][]any {
	rows := make([][]any, 0, len(item.Expenses))
	for _, e := range item.Expenses {
		amount, _ := e.Amount.Decimal().Float64()
		rows = append(rows, []any{
			item.ID,
			item.Date.UTC().Format(dateLayout),
			e.ID,
			e.Date.UTC().Format(dateLayout),
			e.Category,
			amount,
			e.Note,
			e.AccountID,
			string(code),
		})
	}
	return rows
}

// ParseTime reads a timestamp written by HistoryRows.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
