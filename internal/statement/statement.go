package statement

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

var (
	ErrNotPaid        = errors.New("statement has no payment")
	ErrNothingToPay   = errors.New("statement has nothing to pay")
	ErrInvalidLeadDay = errors.New("lead days must not be negative")
)

// Status is derived from the billing cycle and today's date; only payments are stored.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

// Statement is one credit card invoice: every card entry billed on ReferenceMonth.
type Statement struct {
	CardID         uuid.UUID
	CardName       string
	ReferenceMonth billingcycle.Month
	ClosingDate    billingcycle.Date
	DueDate        billingcycle.Date
	TotalCents     int64
	Transactions   []*transaction.Transaction
	Status         Status
	PaidAt         *time.Time
}

// Payment records that the statement of a card for a reference month was settled.
type Payment struct {
	CardID         uuid.UUID
	ReferenceMonth billingcycle.Month
	AmountCents    int64
	PaidAt         time.Time
}

// statusOf compares today with the day the due date actually falls on, so a due day of 31
// in a 30-day month is due on the 1st of the next month, not overdue on it.
func statusOf(closing, due, today billingcycle.Date, paid bool) Status {
	switch {
	case paid:
		return StatusPaid
	case today.After(due.Normalized()):
		return StatusOverdue
	case !today.After(closing):
		return StatusOpen
	default:
		return StatusClosed
	}
}
