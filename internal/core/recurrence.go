// This file implements the Strategy Pattern for counting elapsed recurrence periods.
// Each recurrence (monthly, yearly) has a counter that decides how many whole
// calendar periods separate a transaction's first occurrence from a target date.

package core

import "fmt"

// PeriodCounter is the strategy interface for recurring transactions.
type PeriodCounter interface {
	// Elapsed returns the number of whole calendar periods from start to target.
	// Day-of-month is ignored: only calendar month/year numbers matter.
	Elapsed(start, target Date) int
}

// MonthlyCounter implements PeriodCounter for monthly recurring transactions.
type MonthlyCounter struct{}

// Elapsed returns (y2*12+m2) - (y1*12+m1).
func (MonthlyCounter) Elapsed(start, target Date) int {
	return MonthsBetween(start, target)
}

// YearlyCounter implements PeriodCounter for yearly recurring transactions.
type YearlyCounter struct{}

// Elapsed returns y2 - y1.
func (YearlyCounter) Elapsed(start, target Date) int {
	return YearsBetween(start, target)
}

var periodCounters = map[Recurrence]PeriodCounter{
	Monthly: MonthlyCounter{},
	Yearly:  YearlyCounter{},
}

// GetPeriodCounter returns the counter for a recurring transaction.
// None has no counter: a one-off transaction occurs exactly once.
func GetPeriodCounter(r Recurrence) (PeriodCounter, error) {
	counter, ok := periodCounters[r]
	if !ok {
		return nil, fmt.Errorf("%w: no period counter for %q", ErrInvalidRecurrence, r)
	}
	return counter, nil
}

// MonthsBetween counts calendar month boundaries, so Jan 31 -> Feb 1 is one month.
func MonthsBetween(from, to Date) int {
	return (to.Year()*12 + to.Month()) - (from.Year()*12 + from.Month())
}

// YearsBetween counts calendar year boundaries, so Dec 31 -> Jan 1 is one year.
func YearsBetween(from, to Date) int {
	return to.Year() - from.Year()
}
