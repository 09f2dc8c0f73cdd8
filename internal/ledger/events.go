package ledger

import (
	"time"

	"pocket/internal/core"
	"pocket/internal/currency"
)

// EventType names a ledger mutation.
type EventType string

const (
	AccountAdded    EventType = "account_added"
	AccountEdited   EventType = "account_edited"
	AccountDeleted  EventType = "account_deleted"
	ExpenseAdded    EventType = "expense_added"
	ExpenseDeleted  EventType = "expense_deleted"
	PeriodReset     EventType = "period_reset"
	CurrencyChanged EventType = "currency_changed"
)

// Event describes one applied mutation. Only the fields relevant to Type are
// set.
type Event struct {
	Type      EventType
	AccountID string
	ExpenseID string
	HistoryID string
	Amount    core.Money
	Currency  currency.Code
	At        time.Time
}

// Saver receives the complete snapshot after every mutation. Implementations
// must not block the caller for I/O.
type Saver interface {
	Save(s core.Snapshot)
}

// Publisher receives an event after every mutation. Implementations must not
// block the caller for I/O.
type Publisher interface {
	Publish(e Event)
}

type nopSaver struct{}

func (nopSaver) Save(core.Snapshot) {}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
