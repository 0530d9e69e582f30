package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
)

var (
	ErrNotFound             = errors.New("transaction not found")
	ErrCardIncome           = errors.New("card purchases must be expenses")
	ErrInvalidInstallments  = errors.New("installments must be between 2 and 72")
	ErrInstallmentsNeedCard = errors.New("installments require a card")
	ErrInvalidAmount        = errors.New("amount must be positive")
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
)

const (
	MinInstallments = 2
	MaxInstallments = 72
)

// Transaction is a single ledger entry. Card purchases carry the invoice month they are billed on.
type Transaction struct {
	ID             uuid.UUID
	Amount         int64 // Amount in cents
	Type           Type
	Status         Status
	Category       string
	Description    string
	RawDescription string
	Date           time.Time
	CardID         *uuid.UUID
	InvoiceMonth   *billingcycle.Month
	Installment    *Installment
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}

// Installment marks one part of a purchase split across several invoices.
type Installment struct {
	Number int
	Total  int
}

func (i Installment) String() string {
	return fmt.Sprintf("%d/%d", i.Number, i.Total)
}

// Signed returns the amount as it affects a card invoice: refunds are negative.
func (t *Transaction) Signed() int64 {
	if t.Type == TypeIncome {
		return -t.Amount
	}

	return t.Amount
}
