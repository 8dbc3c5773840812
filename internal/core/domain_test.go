package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
		{NewDate(MinYear, 1, 1), true},
		{NewDate(MaxYear, 12, 31), true},
		{NewDate(MinYear-1, 12, 31), false},
		{NewDate(MaxYear+1, 1, 1), false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2024-01-15", NewDate(2024, 1, 15), true},
		{" 2024-02-29 ", NewDate(2024, 2, 29), true},
		{"2024-03-01T10:30:00Z", NewDate(2024, 3, 1), true},
		{"2024-03-01T23:30:00.000Z", NewDate(2024, 3, 1), true},
		{"2024-03-01T01:00:00+02:00", NewDate(2024, 2, 29), true}, // normalized to UTC
		{"", Date{}, false},
		{"15/01/2024", Date{}, false},
		{"2023-02-29", Date{}, false},
		{"9999-12-31", Date{}, false},
		{"0001-01-01T00:00:00Z", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want.Time) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestDateHelpers(t *testing.T) {
	d := NewDate(2024, 1, 31)
	if got := d.EndOfMonth(); got.String() != "2024-01-31" {
		t.Fatalf("EndOfMonth = %s", got)
	}
	if got := d.AddMonths(1).EndOfMonth(); got.String() != "2024-02-29" {
		t.Fatalf("February end = %s", got)
	}
	if got := d.AddMonths(-2); got.String() != "2023-11-01" {
		t.Fatalf("AddMonths(-2) = %s", got)
	}
	if (Date{}).String() != "" {
		t.Fatalf("zero date should render empty")
	}
	if !DateOf(time.Date(2024, 5, 6, 22, 0, 0, 0, time.UTC)).Equal(NewDate(2024, 5, 6).Time) {
		t.Fatalf("DateOf should drop the clock")
	}
}

func TestParseKindAndRecurrence(t *testing.T) {
	if k, err := ParseKind(" Income "); err != nil || k != Income {
		t.Fatalf("ParseKind income: %v %v", k, err)
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if r, err := ParseRecurrence(""); err != nil || r != None {
		t.Fatalf("empty recurrence should be none: %v %v", r, err)
	}
	if r, err := ParseRecurrence("MONTHLY"); err != nil || r != Monthly {
		t.Fatalf("ParseRecurrence monthly: %v %v", r, err)
	}
	if _, err := ParseRecurrence("weekly"); !errors.Is(err, ErrInvalidRecurrence) {
		t.Fatalf("expected ErrInvalidRecurrence, got %v", err)
	}
}

func TestTransactionSigned(t *testing.T) {
	in := Transaction{Kind: Income, Amount: Money{Cents: 500}}
	out := Transaction{Kind: Expense, Amount: Money{Cents: 500}}
	if in.Signed().Cents != 500 || out.Signed().Cents != -500 {
		t.Fatalf("signed amounts: %d %d", in.Signed().Cents, out.Signed().Cents)
	}
}

func TestDraftValidate(t *testing.T) {
	good := Draft{
		Kind:        Expense,
		Amount:      Money{Cents: 100},
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Recurrence:  Monthly,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name  string
		draft Draft
		field string
		want  error
	}{
		{"zero amount", Draft{Kind: Income, Date: NewDate(2025, 1, 1), Description: "a"}, "amount", ErrInvalidAmount},
		{"negative amount", Draft{Kind: Income, Amount: Money{Cents: -1}, Date: NewDate(2025, 1, 1), Description: "a"}, "amount", ErrInvalidAmount},
		{"blank description", Draft{Kind: Income, Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Description: "   "}, "description", ErrEmptyDescription},
		{"long description", Draft{Kind: Income, Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Description: strings.Repeat("x", MaxDescriptionLength+1)}, "description", ErrDescriptionTooLong},
		{"date out of range", Draft{Kind: Income, Amount: Money{Cents: 1}, Date: NewDate(9999, 12, 31), Description: "a"}, "date", ErrInvalidDate},
		{"missing date", Draft{Kind: Income, Amount: Money{Cents: 1}, Description: "a"}, "date", ErrInvalidDate},
		{"bad kind", Draft{Kind: "gift", Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Description: "a"}, "kind", ErrInvalidKind},
		{"bad recurrence", Draft{Kind: Income, Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Description: "a", Recurrence: "daily"}, "recurrence", ErrInvalidRecurrence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if _, ok := verrs.Fields()[tt.field]; !ok {
				t.Errorf("expected field %q in %v", tt.field, verrs.Fields())
			}
		})
	}
}

func TestDraftValidateCountsCharacters(t *testing.T) {
	d := Draft{Kind: Expense, Amount: Money{Cents: 1}, Date: NewDate(2025, 1, 1), Description: strings.Repeat("è", MaxDescriptionLength)}
	if err := d.Validate(); err != nil {
		t.Fatalf("%d two-byte characters should fit, got %v", MaxDescriptionLength, err)
	}
	d.Description += "è"
	if err := d.Validate(); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestDraftValidateCollectsAllFields(t *testing.T) {
	err := Draft{}.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	fields := verrs.Fields()
	for _, f := range []string{"kind", "amount", "date", "description"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing field %q in %v", f, fields)
		}
	}
}

func TestValidateAnchor(t *testing.T) {
	if err := ValidateAnchor(Money{}, NewDate(2024, 1, 1)); err != nil {
		t.Fatalf("zero balance should be allowed, got %v", err)
	}
	if err := ValidateAnchor(Money{Cents: -1}, NewDate(2024, 1, 1)); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("expected ErrNegativeBalance, got %v", err)
	}
	if err := ValidateAnchor(Money{Cents: 1}, Date{}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
