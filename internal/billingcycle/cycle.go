// Package billingcycle maps credit-card purchases to the monthly invoice they are
// billed on and to that invoice's due date.
//
// Everything here is a pure function of its arguments. Day arguments are not
// validated by the compute functions; callers check configuration with IsValidDay
// (or Cycle.Validate) before it reaches them.
package billingcycle

import "errors"

var (
	ErrInvalidClosingDay = errors.New("closing day must be between 1 and 31")
	ErrInvalidDueDay     = errors.New("due day must be between 1 and 31")
)

// Cycle is a card's statement configuration.
type Cycle struct {
	ClosingDay int
	DueDay     int
}

// Validate checks both days with IsValidDay.
func (c Cycle) Validate() error {
	if !IsValidDay(c.ClosingDay) {
		return ErrInvalidClosingDay
	}

	if !IsValidDay(c.DueDay) {
		return ErrInvalidDueDay
	}

	return nil
}

// InvoiceFor returns the invoice a purchase is billed on and its due date.
func (c Cycle) InvoiceFor(purchase Date) (Month, Date) {
	ref := ReferenceMonth(purchase, c.ClosingDay)
	return ref, DueDate(ref, c.DueDay)
}

// ClosingDate returns the statement cutoff of ref. Like DueDate it is not clamped.
func (c Cycle) ClosingDate(ref Month) Date {
	return ref.Day(c.ClosingDay)
}

// ReferenceMonth returns the invoice month of a purchase. Purchases up to and
// including the closing day stay in their own month; later ones roll into the next.
func ReferenceMonth(purchase Date, closingDay int) Month {
	ref := Month{Year: purchase.Year, Month: purchase.Month}
	if purchase.Day <= closingDay {
		return ref
	}

	return ref.Next()
}

// DueDate returns day dueDay of the month after ref. dueDay is not clamped to the
// length of that month.
func DueDate(ref Month, dueDay int) Date {
	return ref.Next().Day(dueDay)
}

// IsValidDay reports whether day is in [1, 31].
func IsValidDay(day int) bool {
	return day >= 1 && day <= 31
}
