package amqp

import (
	"encoding/json"
	"time"

	"pocket/internal/core"
)

// LedgerEventMessage is the wire form of one applied ledger mutation. It
// carries identifiers only; consumers read full records from the shared
// snapshot store.
type LedgerEventMessage struct {
	Type      string     `json:"type"`
	AccountID string     `json:"accountId,omitempty"`
	ExpenseID string     `json:"expenseId,omitempty"`
	HistoryID string     `json:"historyId,omitempty"`
	Amount    core.Money `json:"amount"`
	Currency  string     `json:"currency,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON decodes a message and rejects ones without a
// type.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type == "" {
		return nil, errMissingType
	}
	return &msg, nil
}
