// Package money provides currency-safe conversion between decimal amounts
// and integer minor units (cents) for materialized transaction payloads. It
// wraps go-money for ISO-4217 currency handling and shopspring/decimal for
// precise scaling.
package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a currency code is unknown to go-money.
const DefaultCurrency = "USD"

// Money is a monetary value in a single currency, stored as minor units.
type Money struct {
	m *gomoney.Money
}

// New creates a Money value from minor units and an ISO-4217 code.
func New(minorUnits int64, currencyCode string) *Money {
	return &Money{m: gomoney.New(minorUnits, resolveCurrency(currencyCode).Code)}
}

// FromDecimal converts a decimal amount (major units) into Money, scaling by
// the currency's fraction (2 for USD/EUR, 0 for JPY).
func FromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := resolveCurrency(currencyCode)
	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := amount.Mul(multiplier).Round(0).IntPart()
	return New(minor, currency.Code)
}

// MinorUnits converts a decimal amount directly to minor units.
func MinorUnits(amount decimal.Decimal, currencyCode string) int64 {
	return FromDecimal(amount, currencyCode).Amount()
}

// Amount returns the value in minor units.
func (m *Money) Amount() int64 { return m.m.Amount() }

// CurrencyCode returns the ISO-4217 code.
func (m *Money) CurrencyCode() string { return m.m.Currency().Code }

// Display formats the value with its currency symbol.
func (m *Money) Display() string { return m.m.Display() }

// String implements fmt.Stringer.
func (m *Money) String() string { return m.Display() }

func resolveCurrency(code string) *gomoney.Currency {
	if c := gomoney.GetCurrency(code); c != nil {
		return c
	}
	return gomoney.GetCurrency(DefaultCurrency)
}

// ValidateCurrencyCode reports whether go-money knows the code.
func ValidateCurrencyCode(code string) error {
	if gomoney.GetCurrency(code) == nil {
		return fmt.Errorf("unknown currency code: %s", code)
	}
	return nil
}
