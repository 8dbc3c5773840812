// Package core provides money parsing and handling utilities.
//
// Amounts are kept in currency minor units (cents) so that projections never
// accumulate floating point error. Decimal strings are parsed with
// shopspring/decimal and rendered for display with go-money.
package core

import (
	"math"
	"strings"
	"unicode"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for display when no currency is configured.
const DefaultCurrency = money.EUR

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.344") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
func ParseDecimalToCents(s string) (int64, error) {
	cents, err := parseCents(s)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// ParseBalanceToCents is ParseDecimalToCents for the initial balance, where zero is allowed.
func ParseBalanceToCents(s string) (int64, error) {
	return parseCents(s)
}

func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, ErrInvalidAmount
	}
	// Digits and a single separator only: no signs, exponents or spaces.
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	if s == "." {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Round rounds half away from zero, which is half-up for positive input.
	cents := d.Round(2).Shift(2)
	if !cents.IsInteger() || cents.GreaterThan(decimal.NewFromInt(maxCents)) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// maxCents bounds a single parsed amount. With dates limited to MinYear..MaxYear
// one transaction contributes at most about 4e18 cents; sums saturate.
const maxCents = 1 << 50

func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Cents: d.Round(2).Shift(2).IntPart()}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add, Neg and Mul saturate at the int64 range instead of wrapping around.
func (m Money) Add(n Money) Money {
	sum := m.Cents + n.Cents
	switch {
	case m.Cents > 0 && n.Cents > 0 && sum < 0:
		return Money{Cents: math.MaxInt64}
	case m.Cents < 0 && n.Cents < 0 && sum >= 0:
		return Money{Cents: math.MinInt64}
	}
	return Money{Cents: sum}
}

func (m Money) Neg() Money {
	if m.Cents == math.MinInt64 {
		return Money{Cents: math.MaxInt64}
	}
	return Money{Cents: -m.Cents}
}

func (m Money) Mul(n int64) Money {
	if m.Cents == 0 || n == 0 {
		return Money{}
	}
	p := m.Cents * n
	if p/n != m.Cents || (m.Cents == -1 && n == math.MinInt64) || (n == -1 && m.Cents == math.MinInt64) {
		if (m.Cents > 0) == (n > 0) {
			return Money{Cents: math.MaxInt64}
		}
		return Money{Cents: math.MinInt64}
	}
	return Money{Cents: p}
}

func (m Money) IsZero() bool       { return m.Cents == 0 }
func (m Money) IsNegative() bool   { return m.Cents < 0 }
func (m Money) Equal(n Money) bool { return m.Cents == n.Cents }

// Decimal returns the value in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the major-unit value with two decimals, e.g. "-12.30".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Format renders the amount with the symbol and separators of an ISO currency code.
// Unknown codes fall back to DefaultCurrency.
func (m Money) Format(currency string) string {
	if money.GetCurrency(currency) == nil {
		currency = DefaultCurrency
	}
	return money.New(m.Cents, currency).Display()
}

// KnownCurrency reports whether code is an ISO 4217 code go-money can format.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
