package ledger

import (
	"github.com/shopspring/decimal"

	"pocket/internal/core"
	"pocket/internal/currency"
)

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() core.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Accounts returns the accounts in insertion order.
func (l *Ledger) Accounts() []core.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Account{}, l.accounts...)
}

// Account looks up one account.
func (l *Ledger) Account(id string) (core.Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.accountIndex(id); i >= 0 {
		return l.accounts[i], true
	}
	return core.Account{}, false
}

// Expenses returns the current-period expenses, most recent first.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Expense{}, l.expenses...)
}

// Expense looks up one current-period expense.
func (l *Ledger) Expense(id string) (core.Expense, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.expenseIndex(id); i >= 0 {
		return l.expenses[i], true
	}
	return core.Expense{}, false
}

// History returns the archived periods, most recent first.
func (l *Ledger) History() []core.HistoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.HistoryItem, len(l.history))
	for i, h := range l.history {
		out[i] = cloneHistoryItem(h)
	}
	return out
}

// Currency returns the display currency.
func (l *Ledger) Currency() currency.Code {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currency
}

// CategoryTotals sums the current expenses by category. Categories appear in
// the order they are first seen in the expense list.
func (l *Ledger) CategoryTotals() []core.CategoryAmount {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []core.CategoryAmount
	index := map[string]int{}
	for _, e := range l.expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, core.CategoryAmount{Name: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// TotalBalance sums every account balance, negative ones included.
func (l *Ledger) TotalBalance() core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total core.Money
	for _, a := range l.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// PositiveBalanceTotal sums the balances that are above zero.
func (l *Ledger) PositiveBalanceTotal() core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.positiveTotalLocked()
}

// PayableAccounts returns the accounts an expense can be paid from, i.e.
// those with a positive balance.
func (l *Ledger) PayableAccounts() []core.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []core.Account
	for _, a := range l.accounts {
		if a.Balance.IsPositive() {
			out = append(out, a)
		}
	}
	return out
}

// AccountShares returns each payable account's share of the positive total
// in whole percent.
func (l *Ledger) AccountShares() []core.AccountShare {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := l.positiveTotalLocked()
	var out []core.AccountShare
	for _, a := range l.accounts {
		if !a.Balance.IsPositive() {
			continue
		}
		pct := a.Balance.Decimal().Mul(decimal.NewFromInt(100)).Div(total.Decimal()).Round(0)
		out = append(out, core.AccountShare{Account: a, Percent: pct.IntPart()})
	}
	return out
}

// FormatAmount renders amount in the active currency. See currency.Format.
func (l *Ledger) FormatAmount(amount core.Money, showSymbol, useDecimals bool) string {
	return currency.Format(l.Currency(), amount.Decimal(), showSymbol, useDecimals)
}

func (l *Ledger) positiveTotalLocked() core.Money {
	var total core.Money
	for _, a := range l.accounts {
		if a.Balance.IsPositive() {
			total = total.Add(a.Balance)
		}
	}
	return total
}
