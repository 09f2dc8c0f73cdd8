package sheets

import (
	"testing"
	"time"

	"pocket/internal/core"
	"pocket/internal/currency"
)

func TestHistoryRows(t *testing.T) {
	reset := time.Date(2024, 1, 31, 23, 0, 0, 0, time.FixedZone("CET", 3600))
	item := core.HistoryItem{
		ID:   "h1",
		Date: reset,
		Expenses: []core.Expense{
			{ID: "e1", Amount: core.MustMoney("12.34"), Category: "Food", Note: "n", Date: reset, AccountID: "a"},
		},
	}

	rows := HistoryRows(item, currency.GBP)
	if len(rows) != 1 || len(rows[0]) != len(Header) {
		t.Fatalf("unexpected shape: %v", rows)
	}
	if rows[0][1] != "2024-01-31 22:00:00" {
		t.Errorf("dates must be written in UTC, got %v", rows[0][1])
	}
	if rows[0][5] != 12.34 {
		t.Errorf("amount = %v", rows[0][5])
	}

	parsed, err := ParseTime(rows[0][3].(string))
	if err != nil || !parsed.Equal(reset) {
		t.Errorf("ParseTime = %v, %v", parsed, err)
	}
}
