package core

import (
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{"12.344", 1234, true},
		{"12.345", 1235, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false},
		{"1e3", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseBalanceToCentsAllowsZero(t *testing.T) {
	got, err := ParseBalanceToCents("0")
	if err != nil || got != 0 {
		t.Fatalf("expected 0, got %d (err=%v)", got, err)
	}
	if _, err := ParseBalanceToCents("-5"); err == nil {
		t.Fatalf("negative balance should not parse")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestMoneyDecimalConversions(t *testing.T) {
	m := Money{Cents: -1230}
	if m.String() != "-12.30" {
		t.Fatalf("String() = %q", m.String())
	}
	if !m.Decimal().Equal(decimal.RequireFromString("-12.3")) {
		t.Fatalf("Decimal() = %s", m.Decimal())
	}
	if got := MoneyFromDecimal(decimal.RequireFromString("10.005")); got.Cents != 1001 {
		t.Fatalf("MoneyFromDecimal = %d", got.Cents)
	}
}

func TestMoneyFormat(t *testing.T) {
	got := Money{Cents: 123456}.Format("EUR")
	if !strings.Contains(got, "€") || !strings.Contains(got, "1,234.56") {
		t.Fatalf("EUR format = %q", got)
	}
	if fallback := (Money{Cents: 100}).Format("???"); !strings.Contains(fallback, "€") {
		t.Fatalf("unknown currency should fall back to EUR, got %q", fallback)
	}
	if !KnownCurrency("USD") || KnownCurrency("XYZ1") {
		t.Fatalf("KnownCurrency mismatch")
	}
}

func TestMoneyArithmeticSaturates(t *testing.T) {
	tests := []struct {
		name string
		got  Money
		want int64
	}{
		{"add", Money{Cents: 2}.Add(Money{Cents: 3}), 5},
		{"add overflow", Money{Cents: math.MaxInt64 - 1}.Add(Money{Cents: 10}), math.MaxInt64},
		{"add underflow", Money{Cents: math.MinInt64 + 1}.Add(Money{Cents: -10}), math.MinInt64},
		{"mul", Money{Cents: -7}.Mul(6), -42},
		{"mul by zero", Money{Cents: math.MaxInt64}.Mul(0), 0},
		{"mul overflow", Money{Cents: maxCents}.Mul(1 << 20), math.MaxInt64},
		{"mul negative overflow", Money{Cents: -maxCents}.Mul(1 << 20), math.MinInt64},
		{"mul min by minus one", Money{Cents: math.MinInt64}.Mul(-1), math.MaxInt64},
		{"neg min", Money{Cents: math.MinInt64}.Neg(), math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Cents != tt.want {
				t.Errorf("got %d, want %d", tt.got.Cents, tt.want)
			}
		})
	}
}
