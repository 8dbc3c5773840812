package core

// BalancePoint is one sample of a projected balance curve.
type BalancePoint struct {
	Date    Date
	Balance Money
}

// BalanceAt projects the ledger balance on target.
//
// A ledger without an anchor projects nothing and returns zero. Otherwise the
// initial balance is always included, even when target precedes the anchor
// date, and every transaction dated on or before target adds its signed amount
// once per occurrence. No rounding is applied.
func BalanceAt(l Ledger, target Date) Money {
	if !l.HasAnchor() {
		return Money{}
	}
	balance := l.InitialBalance
	for _, t := range l.Transactions {
		balance = balance.Add(Contribution(t, target))
	}
	return balance
}

// CurrentBalance is BalanceAt(l, Today()).
func CurrentBalance(l Ledger) Money {
	return BalanceAt(l, Today())
}

// Contribution is the signed total t adds to a projection on target.
func Contribution(t Transaction, target Date) Money {
	return t.Signed().Mul(int64(Occurrences(t, target)))
}

// Occurrences counts how many times t has happened up to and including target.
// Recurring transactions count their start period, hence the +1.
func Occurrences(t Transaction, target Date) int {
	if t.Date.After(target) {
		return 0
	}
	if !t.Recurrence.IsRecurring() {
		return 1
	}
	counter, err := GetPeriodCounter(t.Recurrence)
	if err != nil {
		return 1
	}
	return counter.Elapsed(t.Date, target) + 1
}

// ProjectionSeries samples BalanceAt on the last day of each month, starting
// with from's month and covering months consecutive months.
func ProjectionSeries(l Ledger, from Date, months int) []BalancePoint {
	if months <= 0 {
		return nil
	}
	points := make([]BalancePoint, 0, months)
	first := from.AddMonths(0)
	for i := 0; i < months; i++ {
		at := first.AddMonths(i).EndOfMonth()
		points = append(points, BalancePoint{Date: at, Balance: BalanceAt(l, at)})
	}
	return points
}
