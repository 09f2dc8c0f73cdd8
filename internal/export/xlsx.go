package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"pocket/internal/core"
	"pocket/internal/currency"
)

const (
	expensesSheet = "Expenses"
	historySheet  = "History"
)

// ExpensesXLSX writes a workbook with the current expenses on one sheet and
// the archived periods on another. Amounts are stored as numbers; a display
// column carries the formatted value in the ledger currency.
func ExpensesXLSX(w io.Writer, snap core.Snapshot) error {
	if len(snap.Expenses) == 0 && len(snap.History) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(expensesSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := append(append([]string{}, expenseHeader...), "Formatted")
	if err := writeRow(f, expensesSheet, 1, toCells(header)); err != nil {
		return err
	}
	for i, e := range snap.Expenses {
		if err := writeRow(f, expensesSheet, i+2, expenseCells(e, snap.Currency)); err != nil {
			return err
		}
	}

	if len(snap.History) > 0 {
		if _, err := f.NewSheet(historySheet); err != nil {
			return fmt.Errorf("create sheet: %w", err)
		}
		header := append(append([]string{}, historyHeader...), "Formatted")
		if err := writeRow(f, historySheet, 1, toCells(header)); err != nil {
			return err
		}
		row := 2
		for _, h := range snap.History {
			for _, e := range h.Expenses {
				cells := append([]any{h.ID, timestamp(h.Date)}, expenseCells(e, snap.Currency)...)
				if err := writeRow(f, historySheet, row, cells); err != nil {
					return err
				}
				row++
			}
		}
	}

	_ = f.SetColWidth(expensesSheet, "A", "A", 38)
	_ = f.SetColWidth(expensesSheet, "B", "B", 26)
	_ = f.SetColWidth(expensesSheet, "E", "E", 30)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func expenseCells(e core.Expense, code currency.Code) []any {
	amount, _ := e.Amount.Decimal().Float64()
	return []any{
		e.ID,
		timestamp(e.Date),
		e.Category,
		amount,
		e.Note,
		e.AccountID,
		currency.Format(code, e.Amount.Decimal(), true, true),
	}
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d of %s: %w", row, sheet, err)
	}
	return nil
}
