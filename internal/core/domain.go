package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	None    Recurrence = "none"
	Monthly Recurrence = "monthly"
	Yearly  Recurrence = "yearly"
)

// MaxDescriptionLength bounds the free-text label accepted at the input boundary.
const MaxDescriptionLength = 200

// Accepted calendar years. Keeps occurrence counts, and so projections, bounded.
const (
	MinYear = 1900
	MaxYear = 2200
)

// DateLayout is the ISO-8601 calendar date layout used on every wire format.
const DateLayout = "2006-01-02"

type (
	Kind       string
	Recurrence string

	// Date is a calendar date stored as UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Kind        Kind
		Amount      Money // always positive, sign comes from Kind
		Date        Date  // first occurrence for recurring entries
		Description string
		Recurrence  Recurrence
	}

	// Draft is a transaction that has not been assigned an ID yet.
	Draft struct {
		Kind        Kind
		Amount      Money
		Date        Date
		Description string
		Recurrence  Recurrence
	}

	// Ledger is an immutable snapshot: mutations return a new value.
	Ledger struct {
		InitialBalance Money
		// InitialDate is the anchor date. The zero Date is the "never set"
		// sentinel; ValidateAnchor rejects it so a real anchor is never zero.
		InitialDate    Date
		Transactions   []Transaction
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNegativeBalance    = errors.New("initial balance cannot be negative")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = fmt.Errorf("description too long (max %d characters)", MaxDescriptionLength)
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")
)

// FieldError ties a validation failure to the input field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// ValidationErrors collects every field failure of a single input.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, fe := range v {
		errs[i] = fe
	}
	return errs
}

// Fields maps each failing field to its message.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		out[fe.Field] = fe.Err.Error()
	}
	return out
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock part of t, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today is the only clock read of the package; tests may replace it.
var Today = func() Date { return DateOf(time.Now()) }

// ParseDate accepts a plain ISO date or a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	var d Date
	if t, err := time.Parse(DateLayout, s); err == nil {
		d = DateOf(t)
	} else if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		d = DateOf(t.UTC())
	} else {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.Time.After(o.Time) }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

// EndOfMonth returns the last calendar day of d's month.
func (d Date) EndOfMonth() Date {
	return Date{Time: time.Date(d.Year(), d.Time.Month()+1, 0, 0, 0, 0, 0, time.UTC)}
}

// AddMonths moves to the first day of the month n months away.
func (d Date) AddMonths(n int) Date {
	return Date{Time: time.Date(d.Year(), d.Time.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	if y := d.Year(); y < MinYear || y > MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidDate, y, MinYear, MaxYear)
	}
	return nil
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

func (k Kind) Valid() bool { return k == Income || k == Expense }

// Sign is +1 for income and -1 for expense.
func (k Kind) Sign() int64 {
	if k == Expense {
		return -1
	}
	return 1
}

// ParseRecurrence treats an empty value as a one-off transaction.
func ParseRecurrence(s string) (Recurrence, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	r := Recurrence(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrence, s)
	}
	return r, nil
}

func (r Recurrence) Valid() bool {
	switch r {
	case None, Monthly, Yearly:
		return true
	}
	return false
}

func (r Recurrence) IsRecurring() bool { return r == Monthly || r == Yearly }

// Signed returns the amount with the sign implied by the kind.
func (t Transaction) Signed() Money {
	return Money{Cents: t.Kind.Sign() * t.Amount.Cents}
}

// Normalize trims the description and defaults an empty recurrence to None.
func (d Draft) Normalize() Draft {
	d.Description = strings.TrimSpace(d.Description)
	if d.Recurrence == "" {
		d.Recurrence = None
	}
	return d
}

// Validate is the input boundary: the engine itself accepts any draft.
func (d Draft) Validate() error {
	var errs ValidationErrors
	if !d.Kind.Valid() {
		errs = append(errs, &FieldError{Field: "kind", Err: ErrInvalidKind})
	}
	if err := d.Amount.Validate(); err != nil {
		errs = append(errs, &FieldError{Field: "amount", Err: err})
	}
	if err := d.Date.Validate(); err != nil {
		errs = append(errs, &FieldError{Field: "date", Err: err})
	}
	desc := strings.TrimSpace(d.Description)
	switch {
	case desc == "":
		errs = append(errs, &FieldError{Field: "description", Err: ErrEmptyDescription})
	case utf8.RuneCountInString(desc) > MaxDescriptionLength:
		errs = append(errs, &FieldError{Field: "description", Err: ErrDescriptionTooLong})
	}
	if d.Recurrence != "" && !d.Recurrence.Valid() {
		errs = append(errs, &FieldError{Field: "recurrence", Err: ErrInvalidRecurrence})
	}
	return errs.orNil()
}

// ValidateAnchor checks the initial balance before SetInitialBalance is called.
func ValidateAnchor(amount Money, date Date) error {
	var errs ValidationErrors
	if amount.Cents < 0 {
		errs = append(errs, &FieldError{Field: "amount", Err: ErrNegativeBalance})
	}
	if err := date.Validate(); err != nil {
		errs = append(errs, &FieldError{Field: "date", Err: err})
	}
	return errs.orNil()
}
