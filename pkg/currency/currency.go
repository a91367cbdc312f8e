// Package currency formats ledger amounts for display.
//
// Amounts are never converted between currencies. Formatting rounds to two
// decimal places for display only; stored amounts keep full precision.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultSymbol is used for currencies without a known symbol.
const DefaultSymbol = "$"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// Symbol returns the display symbol for an ISO 4217 code.
func Symbol(code string) string {
	if s, ok := symbols[strings.ToUpper(code)]; ok {
		return s
	}
	return DefaultSymbol
}

// Format renders the magnitude of amount with the currency symbol and two
// decimals, e.g. Format(-12.345, "EUR") == "€12.35". The sign is dropped;
// callers say "owes" or "gets back" themselves.
func Format(amount float64, code string) string {
	return Symbol(code) + decimal.NewFromFloat(amount).Abs().StringFixed(2)
}

// Validate reports whether code is a well-formed ISO 4217 currency code.
func Validate(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("invalid currency %q: %w", code, err)
	}
	return nil
}
