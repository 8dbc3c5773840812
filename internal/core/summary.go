package core

// MonthOverview is a compact income/expense summary for a specific year+month.
type MonthOverview struct {
	Year    int
	Month   int   // 1-12
	Income  Money // positive
	Expense Money // positive, subtracted in Net
	Count   int
}

// Net returns income minus expense.
func (o MonthOverview) Net() Money {
	return o.Income.Add(o.Expense.Neg())
}

// PeriodAggregate totals the transactions dated inside the given month.
//
// Every transaction counts once, in the month of its own date, regardless of
// recurrence. This deliberately differs from BalanceAt, which expands recurring
// transactions across elapsed periods; the two must not be merged.
func PeriodAggregate(l Ledger, year, month int) MonthOverview {
	o := MonthOverview{Year: year, Month: month}
	for _, t := range l.Transactions {
		if t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		o.Count++
		switch t.Kind {
		case Income:
			o.Income = o.Income.Add(t.Amount)
		case Expense:
			o.Expense = o.Expense.Add(t.Amount)
		}
	}
	return o
}

// RecentAggregates returns PeriodAggregate for the months trailing end
// (end's month included), oldest first.
func RecentAggregates(l Ledger, end Date, months int) []MonthOverview {
	if months <= 0 {
		return nil
	}
	out := make([]MonthOverview, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := end.AddMonths(-i)
		out = append(out, PeriodAggregate(l, m.Year(), m.Month()))
	}
	return out
}
