// Package reminder warns about card statements that are about to fall due or are overdue.
package reminder

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
)

// Reminder is one rendered notice for one unpaid statement.
type Reminder struct {
	CardID           uuid.UUID          `json:"card_id"`
	CardName         string             `json:"card_name"`
	ReferenceMonth   billingcycle.Month `json:"reference_month"`
	InvoiceMonth     string             `json:"invoice_month"`
	DueDate          billingcycle.Date  `json:"due_date"`
	DueDateFormatted string             `json:"due_date_formatted"`
	TotalCents       int64              `json:"total_cents"`
	Overdue          bool               `json:"overdue"`
	Subject          string             `json:"subject"`
	Body             string             `json:"body"`
}

type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// MultiNotifier delivers to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, r Reminder) error {
	var errs []error

	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
