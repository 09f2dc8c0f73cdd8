package core

import (
	"encoding/json"
	"errors"
	"testing"

	"pocket/internal/currency"
)

func TestValidateAccountInput(t *testing.T) {
	if err := ValidateAccountInput("GCash"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, name := range []string{"", "   "} {
		if err := ValidateAccountInput(name); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("%q expected ErrEmptyName, got %v", name, err)
		}
	}
}

func TestValidateExpenseInput(t *testing.T) {
	acc := Account{ID: "a", Name: "Wallet", Balance: MoneyFromInt(50)}
	cases := []struct {
		name     string
		amount   Money
		category string
		found    bool
		want     error
	}{
		{"ok", MoneyFromInt(50), "Food", true, nil},
		{"zero amount", MoneyFromInt(0), "Food", true, ErrInvalidAmount},
		{"negative amount", MoneyFromInt(-1), "Food", true, ErrInvalidAmount},
		{"missing category", MoneyFromInt(1), " ", true, ErrEmptyCategory},
		{"no account", MoneyFromInt(1), "Food", false, ErrNoAccount},
		{"insufficient", MustMoney("50.01"), "Food", true, ErrInsufficientFunds},
	}
	for _, tc := range cases {
		err := ValidateExpenseInput(tc.amount, tc.category, acc, tc.found)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestSnapshotNormalize(t *testing.T) {
	s := Snapshot{History: []HistoryItem{{ID: "h"}}}.Normalize()
	if s.Accounts == nil || s.Expenses == nil || s.History[0].Expenses == nil {
		t.Fatalf("expected empty collections, got %+v", s)
	}
	if s.Currency != currency.Default {
		t.Fatalf("expected default currency, got %q", s.Currency)
	}

	s = Snapshot{Currency: currency.PHP}.Normalize()
	if s.Currency != currency.PHP {
		t.Fatalf("existing currency overwritten: %q", s.Currency)
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	orig := Snapshot{
		Accounts: []Account{{ID: "a"}},
		History:  []HistoryItem{{ID: "h", Expenses: []Expense{{ID: "e"}}}},
	}
	c := orig.Clone()
	c.Accounts[0].Name = "changed"
	c.History[0].Expenses[0].Note = "changed"
	if orig.Accounts[0].Name != "" || orig.History[0].Expenses[0].Note != "" {
		t.Fatalf("clone shares memory with original")
	}
}

func TestExpenseJSONFieldNames(t *testing.T) {
	var e Expense
	raw := `{"id":"1","amount":12.5,"category":"Food","note":"x","date":"2025-01-02T03:04:05.000Z","accountId":"acc"}`
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.AccountID != "acc" || !e.Amount.Equal(MustMoney("12.5")) || e.Date.Year() != 2025 {
		t.Fatalf("unexpected expense: %+v", e)
	}
}

func TestIsPresetCategory(t *testing.T) {
	for _, c := range Categories {
		if !IsPresetCategory(c) {
			t.Errorf("IsPresetCategory(%q) = false", c)
		}
	}
	for _, c := range []string{"Rent", "food", ""} {
		if IsPresetCategory(c) {
			t.Errorf("IsPresetCategory(%q) = true", c)
		}
	}
}
