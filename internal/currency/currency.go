// Package currency holds the static catalog of supported display currencies
// and the amount formatter used by the ledger read model.
package currency

import (
	"errors"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code.
type Code string

const (
	USD Code = "USD"
	EUR Code = "EUR"
	JPY Code = "JPY"
	GBP Code = "GBP"
	PHP Code = "PHP"
)

// Default is the currency used when none has been chosen yet.
const Default = USD

// ErrUnsupported is returned by Parse for codes outside the catalog.
var ErrUnsupported = errors.New("unsupported currency")

var catalog = []struct {
	code   Code
	symbol string
}{
	{USD, "$"},
	{EUR, "€"},
	{JPY, "¥"},
	{GBP, "£"},
	{PHP, "₱"},
}

// Codes returns the supported codes in display order.
func Codes() []Code {
	out := make([]Code, len(catalog))
	for i, c := range catalog {
		out[i] = c.code
	}
	return out
}

// Symbol returns the display symbol for code. Unknown codes get the symbol
// of the default currency.
func Symbol(code Code) string {
	for _, c := range catalog {
		if c.code == code {
			return c.symbol
		}
	}
	return catalog[0].symbol
}

// IsSupported reports whether code is part of the catalog.
func IsSupported(code Code) bool {
	for _, c := range catalog {
		if c.code == code {
			return true
		}
	}
	return false
}

// Parse normalizes s and checks it against the catalog.
func Parse(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !IsSupported(code) {
		return "", ErrUnsupported
	}
	return code, nil
}

func (c Code) String() string { return string(c) }

// Bounds of the minor-unit values the money formatter can take.
var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64 + 1)
)

// Format renders amount in en-US style: "," grouping, "." decimal point and
// the symbol in front ("-$1,234.50"). Without decimals the amount is rounded
// half away from zero to whole units. Without the symbol only the signed
// number is rendered. Codes the money library does not know fall back to
// "<code> <amount>", as do amounts too large for the formatter's int64 minor
// units.
func Format(code Code, amount decimal.Decimal, showSymbol, useDecimals bool) string {
	fraction := 2
	if !useDecimals {
		fraction = 0
	}

	shifted := amount.Round(int32(fraction)).Shift(int32(fraction))
	cur := money.GetCurrency(string(code))
	if cur == nil || shifted.GreaterThan(maxMinor) || shifted.LessThan(minMinor) {
		return string(code) + " " + amount.StringFixed(int32(fraction))
	}

	grapheme, template := cur.Grapheme, "$1"
	if IsSupported(code) {
		grapheme = Symbol(code)
	}
	if !showSymbol {
		grapheme, template = "", "1"
	}

	return money.NewFormatter(fraction, ".", ",", grapheme, template).Format(shifted.IntPart())
}
