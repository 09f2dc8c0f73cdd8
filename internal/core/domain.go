package core

import (
	"errors"
	"strings"
	"time"

	"pocket/internal/currency"
)

type (
	// Account is a named monetary bucket. Balance may be negative.
	Account struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Balance Money  `json:"balance"`
	}

	// Expense is a debit against exactly one account.
	Expense struct {
		ID        string    `json:"id"`
		Amount    Money     `json:"amount"`
		Category  string    `json:"category"`
		Note      string    `json:"note"`
		Date      time.Time `json:"date"`
		AccountID string    `json:"accountId"`
	}

	// HistoryItem is the read-only archive of one period's expenses.
	HistoryItem struct {
		ID       string    `json:"id"`
		Date     time.Time `json:"date"`
		Total    Money     `json:"total"`
		Expenses []Expense `json:"expenses"`
	}

	// Snapshot is the complete persisted state of the ledger.
	Snapshot struct {
		Accounts []Account     `json:"accounts"`
		Expenses []Expense     `json:"expenses"`
		History  []HistoryItem `json:"history"`
		Currency currency.Code `json:"currency"`
	}

	// CategoryAmount represents an amount aggregated by category name.
	CategoryAmount struct {
		Name   string `json:"name"`
		Amount Money  `json:"amount"`
	}

	// AccountShare is an account's slice of the positive balance total.
	AccountShare struct {
		Account Account `json:"account"`
		Percent int64   `json:"percent"`
	}
)

var (
	ErrEmptyName         = errors.New("account name is required")
	ErrInvalidAmount     = errors.New("amount must be a positive number")
	ErrEmptyCategory     = errors.New("category is required")
	ErrNoAccount         = errors.New("an account must be selected")
	ErrInsufficientFunds = errors.New("insufficient funds in account")
)

// Normalize replaces missing collections with empty ones and a missing
// currency with the default, so every field of an older or newer snapshot
// decodes independently.
func (s Snapshot) Normalize() Snapshot {
	if s.Accounts == nil {
		s.Accounts = []Account{}
	}
	if s.Expenses == nil {
		s.Expenses = []Expense{}
	}
	history := make([]HistoryItem, len(s.History))
	for i, h := range s.History {
		if h.Expenses == nil {
			h.Expenses = []Expense{}
		}
		history[i] = h
	}
	s.History = history
	if s.Currency == "" {
		s.Currency = currency.Default
	}
	return s
}

// Clone returns a deep copy safe to hand to another goroutine.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Accounts: append([]Account{}, s.Accounts...),
		Expenses: append([]Expense{}, s.Expenses...),
		History:  make([]HistoryItem, len(s.History)),
		Currency: s.Currency,
	}
	for i, h := range s.History {
		h.Expenses = append([]Expense{}, h.Expenses...)
		out.History[i] = h
	}
	return out
}

// ValidateAccountInput checks the fields a user supplies when creating or
// editing an account.
func ValidateAccountInput(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidateExpenseInput checks an expense against the account it would be paid
// from. found reports whether the account exists.
func ValidateExpenseInput(amount Money, category string, account Account, found bool) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(category) == "" {
		return ErrEmptyCategory
	}
	if !found {
		return ErrNoAccount
	}
	if account.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}
