// Package export renders ledger expenses as downloadable files.
package export

import (
	"errors"
	"io"
	"strings"
	"time"

	"pocket/internal/core"
)

// ErrNoData is returned when there is nothing to export.
var ErrNoData = errors.New("there are no expenses to export")

var (
	expenseHeader = []string{"ID", "Date", "Category", "Amount", "Note", "AccountId"}
	historyHeader = []string{"HistoryID", "ResetDate", "ExpenseID", "Date", "Category", "Amount", "Note", "AccountId"}
)

// TimestampLayout renders instants as UTC ISO-8601 with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ExpensesCSV writes the current period's expenses. The note column is
// always quoted so free text round-trips through spreadsheet tools.
func ExpensesCSV(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return ErrNoData
	}
	rows := make([]string, 0, len(expenses)+1)
	rows = append(rows, strings.Join(expenseHeader, ","))
	for _, e := range expenses {
		rows = append(rows, strings.Join(expenseFields(e), ","))
	}
	_, err := io.WriteString(w, strings.Join(rows, "\n"))
	return err
}

// HistoryCSV writes every archived expense, one row each, prefixed with the
// archive it belongs to.
func HistoryCSV(w io.Writer, history []core.HistoryItem) error {
	rows := []string{strings.Join(historyHeader, ",")}
	for _, h := range history {
		prefix := []string{field(h.ID), timestamp(h.Date)}
		for _, e := range h.Expenses {
			rows = append(rows, strings.Join(append(prefix, expenseFields(e)...), ","))
		}
	}
	if len(rows) == 1 {
		return ErrNoData
	}
	_, err := io.WriteString(w, strings.Join(rows, "\n"))
	return err
}

func expenseFields(e core.Expense) []string {
	return []string{
		field(e.ID),
		timestamp(e.Date),
		field(e.Category),
		e.Amount.String(),
		quote(e.Note),
		field(e.AccountID),
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// field quotes s only when it would otherwise break the row.
func field(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
