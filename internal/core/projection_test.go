package core

import (
	"math"
	"testing"
)

func tx(kind Kind, cents int64, d Date, rec Recurrence) Transaction {
	return Transaction{ID: d.String() + string(kind), Kind: kind, Amount: Money{Cents: cents}, Date: d, Description: "t", Recurrence: rec}
}

func TestBalanceAt_NoAnchorIsZero(t *testing.T) {
	l := Ledger{
		InitialBalance: Money{Cents: 100000},
		Transactions: []Transaction{
			tx(Income, 5000, NewDate(2024, 1, 1), None),
			tx(Expense, 2000, NewDate(2024, 1, 1), Monthly),
		},
	}
	for _, d := range []Date{NewDate(1990, 1, 1), NewDate(2024, 6, 1), NewDate(2100, 1, 1)} {
		if got := BalanceAt(l, d); !got.IsZero() {
			t.Fatalf("BalanceAt(%s) = %d, want 0", d, got.Cents)
		}
	}
}

func TestBalanceAt_EmptyLedgerReturnsInitialBalance(t *testing.T) {
	l := EmptyLedger().SetInitialBalance(Money{Cents: 123456}, NewDate(2024, 1, 1))
	for _, d := range []Date{NewDate(2024, 1, 1), NewDate(2024, 12, 31), NewDate(2030, 5, 5)} {
		if got := BalanceAt(l, d); got.Cents != 123456 {
			t.Fatalf("BalanceAt(%s) = %d, want 123456", d, got.Cents)
		}
	}
}

func TestBalanceAt_Contributions(t *testing.T) {
	anchor := NewDate(2020, 1, 1)

	tests := []struct {
		name   string
		tx     Transaction
		target Date
		want   int64
	}{
		{
			name:   "one-off after target contributes nothing",
			tx:     tx(Income, 500, NewDate(2024, 3, 2), None),
			target: NewDate(2024, 3, 1),
			want:   0,
		},
		{
			name:   "one-off on target contributes once",
			tx:     tx(Income, 500, NewDate(2024, 3, 1), None),
			target: NewDate(2024, 3, 1),
			want:   500,
		},
		{
			name:   "one-off expense before target is negative",
			tx:     tx(Expense, 500, NewDate(2023, 3, 1), None),
			target: NewDate(2024, 3, 1),
			want:   -500,
		},
		{
			name:   "monthly from 2024-01-15 to 2024-04-01 counts four occurrences",
			tx:     tx(Income, 1000, NewDate(2024, 1, 15), Monthly),
			target: NewDate(2024, 4, 1),
			want:   4000,
		},
		{
			name:   "yearly from 2020-06-01 to 2023-06-01 counts four occurrences",
			tx:     tx(Expense, 1000, NewDate(2020, 6, 1), Yearly),
			target: NewDate(2023, 6, 1),
			want:   -4000,
		},
		{
			name:   "recurring starting on target counts once",
			tx:     tx(Income, 700, NewDate(2024, 5, 20), Monthly),
			target: NewDate(2024, 5, 20),
			want:   700,
		},
		{
			name:   "recurring starting after target contributes nothing",
			tx:     tx(Income, 700, NewDate(2024, 5, 21), Yearly),
			target: NewDate(2024, 5, 20),
			want:   0,
		},
		{
			name:   "jan 31 to feb 1 is one elapsed month",
			tx:     tx(Income, 100, NewDate(2024, 1, 31), Monthly),
			target: NewDate(2024, 2, 1),
			want:   200,
		},
		{
			name:   "dec 31 to jan 1 is one elapsed year",
			tx:     tx(Income, 100, NewDate(2023, 12, 31), Yearly),
			target: NewDate(2024, 1, 1),
			want:   200,
		},
		{
			name:   "monthly ignores day of month within the target month",
			tx:     tx(Expense, 100, NewDate(2024, 1, 20), Monthly),
			target: NewDate(2024, 3, 5),
			want:   -300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Ledger{InitialDate: anchor, Transactions: []Transaction{tt.tx}}
			if got := BalanceAt(l, tt.target); got.Cents != tt.want {
				t.Errorf("BalanceAt() = %d, want %d", got.Cents, tt.want)
			}
			if got := Contribution(tt.tx, tt.target); got.Cents != tt.want {
				t.Errorf("Contribution() = %d, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestBalanceAt_Scenario(t *testing.T) {
	l := EmptyLedger().SetInitialBalance(Money{Cents: 100000}, NewDate(2024, 1, 1))
	l, _ = l.AddTransaction(Draft{Kind: Income, Amount: Money{Cents: 50000}, Date: NewDate(2024, 2, 1), Description: "bonus", Recurrence: None})
	l, _ = l.AddTransaction(Draft{Kind: Expense, Amount: Money{Cents: 20000}, Date: NewDate(2024, 1, 1), Description: "rent", Recurrence: Monthly})

	if got := BalanceAt(l, NewDate(2024, 3, 1)); got.Cents != 90000 {
		t.Fatalf("BalanceAt(2024-03-01) = %d, want 90000", got.Cents)
	}
}

func TestBalanceAt_TargetBeforeAnchorKeepsInitialBalance(t *testing.T) {
	l := Ledger{
		InitialBalance: Money{Cents: 1000},
		InitialDate:    NewDate(2024, 6, 1),
		Transactions:   []Transaction{tx(Income, 50, NewDate(2024, 1, 1), None)},
	}
	// The pre-anchor transaction is dated before the target and still counts.
	if got := BalanceAt(l, NewDate(2024, 2, 1)); got.Cents != 1050 {
		t.Fatalf("BalanceAt before anchor = %d, want 1050", got.Cents)
	}
}

func TestBalanceAt_Deterministic(t *testing.T) {
	l := Ledger{
		InitialBalance: Money{Cents: 10},
		InitialDate:    NewDate(2024, 1, 1),
		Transactions: []Transaction{
			tx(Income, 300, NewDate(2024, 1, 10), Monthly),
			tx(Expense, 100, NewDate(2024, 2, 10), None),
		},
	}
	target := NewDate(2025, 1, 1)
	first := BalanceAt(l, target)
	for i := 0; i < 5; i++ {
		if got := BalanceAt(l, target); got != first {
			t.Fatalf("run %d: %d != %d", i, got.Cents, first.Cents)
		}
	}
}

func TestBalanceAt_UnknownRecurrenceCountsOnce(t *testing.T) {
	l := Ledger{InitialDate: NewDate(2024, 1, 1), Transactions: []Transaction{tx(Income, 100, NewDate(2024, 1, 1), "weekly")}}
	if got := BalanceAt(l, NewDate(2024, 12, 1)); got.Cents != 100 {
		t.Fatalf("BalanceAt = %d, want 100", got.Cents)
	}
}

func TestCurrentBalanceUsesToday(t *testing.T) {
	restore := Today
	defer func() { Today = restore }()
	Today = func() Date { return NewDate(2024, 3, 1) }

	l := EmptyLedger().SetInitialBalance(Money{Cents: 100}, NewDate(2024, 1, 1))
	l, _ = l.AddTransaction(Draft{Kind: Income, Amount: Money{Cents: 10}, Date: NewDate(2024, 1, 1), Description: "x", Recurrence: Monthly})
	if got := CurrentBalance(l); got.Cents != 130 {
		t.Fatalf("CurrentBalance = %d, want 130", got.Cents)
	}
	if got := CurrentBalance(l.ClearAll()); !got.IsZero() {
		t.Fatalf("CurrentBalance after ClearAll = %d, want 0", got.Cents)
	}
}

func TestProjectionSeries(t *testing.T) {
	l := EmptyLedger().SetInitialBalance(Money{Cents: 1000}, NewDate(2024, 1, 1))
	l, _ = l.AddTransaction(Draft{Kind: Expense, Amount: Money{Cents: 100}, Date: NewDate(2024, 1, 15), Description: "sub", Recurrence: Monthly})

	points := ProjectionSeries(l, NewDate(2024, 1, 10), 3)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	wantDates := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	wantCents := []int64{900, 800, 700}
	for i, p := range points {
		if p.Date.String() != wantDates[i] || p.Balance.Cents != wantCents[i] {
			t.Errorf("point %d = %s/%d, want %s/%d", i, p.Date, p.Balance.Cents, wantDates[i], wantCents[i])
		}
	}
	if ProjectionSeries(l, NewDate(2024, 1, 1), 0) != nil {
		t.Errorf("zero months should yield nil")
	}
}

func TestBalanceAt_LargeTotalsSaturate(t *testing.T) {
	start := NewDate(MinYear, 1, 1)
	end := NewDate(MaxYear, 12, 31)
	l := EmptyLedger().SetInitialBalance(Money{}, start)

	one := tx(Income, maxCents, start, Monthly)
	if got, want := Contribution(one, end).Cents, int64(maxCents)*int64(Occurrences(one, end)); got != want {
		t.Fatalf("single contribution = %d, want exact %d", got, want)
	}

	for i := 0; i < 3; i++ {
		next := one
		next.ID = string(rune('a' + i))
		l.Transactions = append(l.Transactions, next)
	}
	if got := BalanceAt(l, end); got.Cents != math.MaxInt64 {
		t.Fatalf("BalanceAt = %d, want saturation at %d", got.Cents, int64(math.MaxInt64))
	}

	for i := range l.Transactions {
		l.Transactions[i].Kind = Expense
	}
	if got := BalanceAt(l, end); got.Cents != math.MinInt64 {
		t.Fatalf("BalanceAt = %d, want saturation at %d", got.Cents, int64(math.MinInt64))
	}
}
