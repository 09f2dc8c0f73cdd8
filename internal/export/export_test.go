package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"pocket/internal/core"
	"pocket/internal/currency"
)

var day = time.Date(2024, 5, 6, 7, 8, 9, 10_000_000, time.UTC)

func expense(id, category, amount, note string) core.Expense {
	return core.Expense{
		ID:        id,
		Amount:    core.MustMoney(amount),
		Category:  category,
		Note:      note,
		Date:      day,
		AccountID: "acc-1",
	}
}

func TestExpensesCSV(t *testing.T) {
	var buf bytes.Buffer
	err := ExpensesCSV(&buf, []core.Expense{
		expense("e1", "Food", "12.30", `said "hi", left`),
		expense("e2", "Rent, shared", "500", ""),
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	want := strings.Join([]string{
		"ID,Date,Category,Amount,Note,AccountId",
		`e1,2024-05-06T07:08:09.010Z,Food,12.3,"said ""hi"", left",acc-1`,
		`e2,2024-05-06T07:08:09.010Z,"Rent, shared",500,"",acc-1`,
	}, "\n")
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExpensesCSV(&buf, nil); !errors.Is(err, ErrNoData) {
		t.Errorf("ExpensesCSV err = %v, want ErrNoData", err)
	}
	if err := HistoryCSV(&buf, []core.HistoryItem{{ID: "h1", Expenses: []core.Expense{}}}); !errors.Is(err, ErrNoData) {
		t.Errorf("HistoryCSV err = %v, want ErrNoData", err)
	}
	if err := ExpensesXLSX(&buf, core.Snapshot{}.Normalize()); !errors.Is(err, ErrNoData) {
		t.Errorf("ExpensesXLSX err = %v, want ErrNoData", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %q", buf.String())
	}
}

func TestHistoryCSV(t *testing.T) {
	reset := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := HistoryCSV(&buf, []core.HistoryItem{
		{ID: "h2", Date: reset, Total: core.MustMoney("7"), Expenses: []core.Expense{expense("e3", "Other", "7", "x")}},
		{ID: "h1", Date: reset, Total: core.MustMoney("3"), Expenses: []core.Expense{
			expense("e1", "Food", "1", "a"),
			expense("e2", "Food", "2", "b"),
		}},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), buf.String())
	}
	if lines[0] != "HistoryID,ResetDate,ExpenseID,Date,Category,Amount,Note,AccountId" {
		t.Errorf("header = %q", lines[0])
	}
	if want := `h1,2024-06-01T00:00:00.000Z,e2,2024-05-06T07:08:09.010Z,Food,2,"b",acc-1`; lines[3] != want {
		t.Errorf("row = %q, want %q", lines[3], want)
	}
}

func TestExpensesXLSX(t *testing.T) {
	snap := core.Snapshot{
		Expenses: []core.Expense{expense("e1", "Food", "1234.5", "groceries")},
		History: []core.HistoryItem{{
			ID:       "h1",
			Date:     day,
			Expenses: []core.Expense{expense("e0", "Transport", "3", "")},
		}},
		Currency: currency.EUR,
	}.Normalize()

	var buf bytes.Buffer
	if err := ExpensesXLSX(&buf, snap); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(expensesSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1][0] != "e1" || rows[1][4] != "groceries" || rows[1][6] != "€1,234.50" {
		t.Errorf("unexpected row: %v", rows[1])
	}

	hist, err := f.GetRows(historySheet)
	if err != nil {
		t.Fatalf("read history rows: %v", err)
	}
	if len(hist) != 2 || hist[1][0] != "h1" || hist[1][2] != "e0" {
		t.Errorf("unexpected history rows: %v", hist)
	}
}
