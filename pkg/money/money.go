// Package money provides fixed-point monetary values.
//
// Invariants:
//   - Amounts are decimals rounded to Scale fractional digits on construction
//     and after every arithmetic step.
//   - Currency codes are one of the supported set.
//   - Arithmetic requires matching currencies.
package money

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale int32 = 2

var (
	// ErrInvalidCurrency is returned for malformed or unsupported currency codes.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrMismatchedCurrencies is returned when combining money in different currencies.
	ErrMismatchedCurrencies = errors.New("mismatched currencies")

	// ErrInvalidAmount is returned when an amount string cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Round rounds d to Scale fractional digits, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Parse parses a decimal string and rounds it to Scale digits.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Round(d), nil
}

// Money is an amount in a currency.
type Money struct {
	amount   decimal.Decimal
	currency Code
}

// New creates Money from an amount and a supported currency code.
// The amount is rounded to Scale digits.
func New(amount decimal.Decimal, currency Code) (Money, error) {
	if !currency.IsValid() || !currency.IsSupported() {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return Money{amount: Round(amount), currency: currency}, nil
}

// Zero returns zero in the given currency without validating it.
func Zero(currency Code) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the rounded decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() Code { return m.currency }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrMismatchedCurrencies
	}
	return Money{amount: Round(m.amount.Add(other.amount)), currency: m.currency}, nil
}

// Subtract returns m - other. The result may be negative; callers enforce balance rules.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrMismatchedCurrencies
	}
	return Money{amount: Round(m.amount.Sub(other.amount)), currency: m.currency}, nil
}

// LessThan reports whether m < other. Currencies must match.
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, ErrMismatchedCurrencies
	}
	return m.amount.LessThan(other.amount), nil
}

// Equals reports whether both amount and currency are equal.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formats the value as "100.00 INR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(Scale), m.currency)
}

// MarshalJSON renders the amount as a fixed two-digit string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"amount":   m.amount.StringFixed(Scale),
		"currency": string(m.currency),
	})
}
