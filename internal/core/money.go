// Package core provides money parsing and handling utilities.
//
// This file contains the exact decimal Money type used for balances and
// expense amounts, plus the parsers applied to user input.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is an exact signed decimal amount in major units of the display
// currency. The zero value is 0.
type Money struct {
	value decimal.Decimal
}

// NewMoney wraps a decimal.
func NewMoney(d decimal.Decimal) Money { return Money{value: d} }

// MoneyFromInt returns a whole-unit amount.
func MoneyFromInt(v int64) Money { return Money{value: decimal.NewFromInt(v)} }

// MustMoney parses s and panics on error. Intended for tests and constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return Money{value: d}
}

func (m Money) Decimal() decimal.Decimal    { return m.value }
func (m Money) Add(n Money) Money           { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money           { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money                  { return Money{value: m.value.Neg()} }
func (m Money) Equal(n Money) bool          { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                { return m.value.IsZero() }
func (m Money) IsPositive() bool            { return m.value.IsPositive() }
func (m Money) IsNegative() bool            { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool       { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool    { return m.value.GreaterThan(n.value) }
func (m Money) Cmp(n Money) int             { return m.value.Cmp(n.value) }
func (m Money) String() string              { return m.value.String() }


// MarshalJSON encodes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.value = d
	return nil
}

// ParseAmount parses an expense amount typed by a user.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. The
// result must be strictly positive.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> ErrInvalidAmount
//	ParseAmount("-3")    -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	m, err := parseDecimal(s, false)
	if err != nil {
		return Money{}, err
	}
	if !m.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	return m, nil
}

// ParseBalance parses an account balance. Negative values are allowed, e.g.
// for a credit card liability.
func ParseBalance(s string) (Money, error) {
	return parseDecimal(s, true)
}

func parseDecimal(s string, signed bool) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	body := s
	if strings.HasPrefix(body, "+") || strings.HasPrefix(body, "-") {
		if !signed {
			return Money{}, ErrInvalidAmount
		}
		body = body[1:]
	}

	parts := strings.Split(body, ".")
	if len(parts) > 2 || (parts[0] == "" && (len(parts) == 1 || parts[1] == "")) {
		return Money{}, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return Money{}, ErrInvalidAmount
			}
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{value: d}, nil
}
