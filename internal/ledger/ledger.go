// Package ledger owns the accounts, the current-period expenses and the
// archived periods, and keeps every account balance consistent with the
// expenses recorded against it.
//
// Every successful mutation hands a complete snapshot to the configured Saver
// and an Event to the configured Publisher. Operations on unknown ids are
// silent no-ops that report false and trigger neither.
package ledger

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pocket/internal/core"
	"pocket/internal/currency"
)

// Ledger is safe for concurrent use; a mutex serializes all operations.
type Ledger struct {
	mu       sync.Mutex
	accounts []core.Account
	expenses []core.Expense // most recent first
	history  []core.HistoryItem
	currency currency.Code

	now    func() time.Time
	newID  func() string
	saver  Saver
	events Publisher
	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithSaver sets the post-mutation persistence hook.
func WithSaver(s Saver) Option {
	return func(l *Ledger) { l.saver = s }
}

// WithPublisher sets the post-mutation event hook.
func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.events = p }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// New returns an empty ledger in the default currency.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts: []core.Account{},
		expenses: []core.Expense{},
		history:  []core.HistoryItem{},
		currency: currency.Default,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:    uuid.NewString,
		saver:    nopSaver{},
		events:   nopPublisher{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore replaces the whole state with s. It is used once at startup with
// the loaded snapshot and does not trigger a save.
func (l *Ledger) Restore(s core.Snapshot) {
	s = s.Normalize().Clone()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = s.Accounts
	l.expenses = s.Expenses
	l.history = s.History
	l.currency = s.Currency

	l.logger.Info("Ledger restored",
		"accounts", len(l.accounts),
		"expenses", len(l.expenses),
		"history", len(l.history),
		"currency", l.currency)
}

// AddAccount appends a new account with a fresh id. The caller validates the
// name.
func (l *Ledger) AddAccount(name string, balance core.Money) core.Account {
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := core.Account{ID: l.newID(), Name: name, Balance: balance}
	l.accounts = append(l.accounts, acc)

	l.committed(Event{Type: AccountAdded, AccountID: acc.ID, Amount: balance})
	return acc
}

// EditAccount overwrites the name and balance of account id. The new balance
// is taken as is; expense history does not adjust it.
func (l *Ledger) EditAccount(id, name string, balance core.Money) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.accountIndex(id)
	if i < 0 {
		return false
	}
	l.accounts[i].Name = name
	l.accounts[i].Balance = balance

	l.committed(Event{Type: AccountEdited, AccountID: id, Amount: balance})
	return true
}

// DeleteAccount removes account id. Expenses that reference it are kept and
// become orphans.
func (l *Ledger) DeleteAccount(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.accountIndex(id)
	if i < 0 {
		return false
	}
	l.accounts = append(l.accounts[:i:i], l.accounts[i+1:]...)

	l.committed(Event{Type: AccountDeleted, AccountID: id})
	return true
}

// AddExpense records an expense at the head of the current period and
// debits amount from account accountID in the same step. The ledger does not
// check amount or the available balance; callers do. If the account does not
// exist the expense is still recorded and no balance changes.
func (l *Ledger) AddExpense(amount core.Money, category, note, accountID string) core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addExpenseLocked(amount, category, note, accountID)
}

// SpendFrom validates an expense against its paying account and records it
// under the same lock, so concurrent callers cannot overdraw the account.
// It returns the validation error from core.ValidateExpenseInput, if any.
func (l *Ledger) SpendFrom(amount core.Money, category, note, accountID string) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var acc core.Account
	i := l.accountIndex(accountID)
	if i >= 0 {
		acc = l.accounts[i]
	}
	if err := core.ValidateExpenseInput(amount, category, acc, i >= 0); err != nil {
		return core.Expense{}, err
	}
	return l.addExpenseLocked(amount, category, note, accountID), nil
}

func (l *Ledger) addExpenseLocked(amount core.Money, category, note, accountID string) core.Expense {
	exp := core.Expense{
		ID:        l.newID(),
		Amount:    amount,
		Category:  category,
		Note:      note,
		Date:      l.now(),
		AccountID: accountID,
	}
	l.expenses = append([]core.Expense{exp}, l.expenses...)

	if i := l.accountIndex(accountID); i >= 0 {
		l.accounts[i].Balance = l.accounts[i].Balance.Sub(amount)
	} else {
		l.logger.Warn("Expense recorded against unknown account",
			"expense_id", exp.ID, "account_id", accountID)
	}

	l.committed(Event{Type: ExpenseAdded, ExpenseID: exp.ID, AccountID: accountID, Amount: amount})
	return exp
}

// DeleteExpense removes expense id from the current period and credits its
// amount back to the account it was paid from, if that account still exists.
func (l *Ledger) DeleteExpense(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.expenseIndex(id)
	if i < 0 {
		return false
	}
	exp := l.expenses[i]

	if j := l.accountIndex(exp.AccountID); j >= 0 {
		l.accounts[j].Balance = l.accounts[j].Balance.Add(exp.Amount)
	}
	l.expenses = append(l.expenses[:i:i], l.expenses[i+1:]...)

	l.committed(Event{Type: ExpenseDeleted, ExpenseID: id, AccountID: exp.AccountID, Amount: exp.Amount})
	return true
}

// ResetPeriod archives the current expenses into a new HistoryItem at the
// head of the history and clears them. Balances are left untouched. With no
// current expenses it does nothing and reports false.
func (l *Ledger) ResetPeriod() (core.HistoryItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.expenses) == 0 {
		return core.HistoryItem{}, false
	}

	var total core.Money
	for _, e := range l.expenses {
		total = total.Add(e.Amount)
	}
	item := core.HistoryItem{
		ID:       l.newID(),
		Date:     l.now(),
		Total:    total,
		Expenses: append([]core.Expense{}, l.expenses...),
	}
	l.history = append([]core.HistoryItem{item}, l.history...)
	l.expenses = []core.Expense{}

	l.committed(Event{Type: PeriodReset, HistoryID: item.ID, Amount: total})
	return cloneHistoryItem(item), true
}

// SetCurrency changes the display currency. Balances are not converted.
func (l *Ledger) SetCurrency(code currency.Code) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currency = code
	l.committed(Event{Type: CurrencyChanged, Currency: code})
}

// committed runs the post-mutation hooks. Callers hold l.mu.
func (l *Ledger) committed(e Event) {
	if e.At.IsZero() {
		e.At = l.now()
	}
	l.saver.Save(l.snapshotLocked())
	l.events.Publish(e)

	l.logger.Debug("Ledger mutation applied",
		"event", e.Type,
		"account_id", e.AccountID,
		"expense_id", e.ExpenseID,
		"history_id", e.HistoryID)
}

func (l *Ledger) snapshotLocked() core.Snapshot {
	return core.Snapshot{
		Accounts: l.accounts,
		Expenses: l.expenses,
		History:  l.history,
		Currency: l.currency,
	}.Clone()
}

func (l *Ledger) accountIndex(id string) int {
	for i, a := range l.accounts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) expenseIndex(id string) int {
	for i, e := range l.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func cloneHistoryItem(h core.HistoryItem) core.HistoryItem {
	h.Expenses = append([]core.Expense{}, h.Expenses...)
	return h
}
