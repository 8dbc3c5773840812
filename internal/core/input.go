package core

import "strings"

// DraftInput holds the raw text of a transaction as typed by a user.
type DraftInput struct {
	Kind        string
	Amount      string
	Date        string // empty means today
	Description string
	Recurrence  string
}

// Parse converts the raw fields into a validated Draft. Every failing field is
// reported, parse failures taking precedence over validation ones.
func (in DraftInput) Parse() (Draft, error) {
	var errs ValidationErrors
	var d Draft

	if k, err := ParseKind(in.Kind); err != nil {
		errs = append(errs, &FieldError{Field: "kind", Err: ErrInvalidKind})
	} else {
		d.Kind = k
	}
	if cents, err := ParseDecimalToCents(in.Amount); err != nil {
		errs = append(errs, &FieldError{Field: "amount", Err: err})
	} else {
		d.Amount = Money{Cents: cents}
	}
	if strings.TrimSpace(in.Date) == "" {
		d.Date = Today()
	} else if date, err := ParseDate(in.Date); err != nil {
		errs = append(errs, &FieldError{Field: "date", Err: ErrInvalidDate})
	} else {
		d.Date = date
	}
	if r, err := ParseRecurrence(in.Recurrence); err != nil {
		errs = append(errs, &FieldError{Field: "recurrence", Err: ErrInvalidRecurrence})
	} else {
		d.Recurrence = r
	}
	d.Description = in.Description
	d = d.Normalize()

	if err := d.Validate(); err != nil {
		seen := make(map[string]bool, len(errs))
		for _, fe := range errs {
			seen[fe.Field] = true
		}
		for _, fe := range err.(ValidationErrors) {
			if !seen[fe.Field] {
				errs = append(errs, fe)
			}
		}
	}
	if err := errs.orNil(); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// AnchorInput holds the raw text of an initial balance.
type AnchorInput struct {
	Amount string
	Date   string // empty means today
}

// Parse converts the raw fields into a validated anchor amount and date.
func (in AnchorInput) Parse() (Money, Date, error) {
	var errs ValidationErrors
	var amount Money
	var date Date

	raw := strings.TrimSpace(in.Amount)
	if strings.HasPrefix(raw, "-") {
		errs = append(errs, &FieldError{Field: "amount", Err: ErrNegativeBalance})
	} else if cents, err := ParseBalanceToCents(raw); err != nil {
		errs = append(errs, &FieldError{Field: "amount", Err: err})
	} else {
		amount = Money{Cents: cents}
	}

	if strings.TrimSpace(in.Date) == "" {
		date = Today()
	} else if d, err := ParseDate(in.Date); err != nil {
		errs = append(errs, &FieldError{Field: "date", Err: ErrInvalidDate})
	} else {
		date = d
	}

	if err := errs.orNil(); err != nil {
		return Money{}, Date{}, err
	}
	if err := ValidateAnchor(amount, date); err != nil {
		return Money{}, Date{}, err
	}
	return amount, date, nil
}
