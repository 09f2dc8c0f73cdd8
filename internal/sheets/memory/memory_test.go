package memory

import (
	"context"
	"testing"
	"time"

	"pocket/internal/core"
	"pocket/internal/currency"
)

func TestMemoryStoreAppendHistory(t *testing.T) {
	at := time.Date(2024, 7, 1, 9, 30, 0, 0, time.UTC)
	item := core.HistoryItem{
		ID:    "h1",
		Date:  at,
		Total: core.MustMoney("15"),
		Expenses: []core.Expense{
			{ID: "e2", Amount: core.MustMoney("10"), Category: "Food", Date: at, AccountID: "a1"},
			{ID: "e1", Amount: core.MustMoney("5"), Category: "Transport", Note: "bus", Date: at, AccountID: "a1"},
		},
	}

	s := New()
	ref, err := s.AppendHistory(context.Background(), item, currency.EUR)
	if err != nil || ref != "mem:1-2" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1][2] != "e1" || rows[1][5] != 5.0 || rows[1][6] != "bus" || rows[1][8] != "EUR" {
		t.Errorf("unexpected row: %v", rows[1])
	}
	if rows[0][1] != "2024-07-01 09:30:00" {
		t.Errorf("reset date = %v", rows[0][1])
	}

	ids, _ := s.ArchivedIDs(context.Background())
	if len(ids) != 1 || ids[0] != "h1" {
		t.Errorf("archived ids = %v", ids)
	}
}

func TestMemoryStoreEmptyPeriod(t *testing.T) {
	s := New()
	if _, err := s.AppendHistory(context.Background(), core.HistoryItem{ID: "h0"}, currency.USD); err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(s.Rows()) != 0 {
		t.Errorf("expected no rows for an empty period")
	}
}
