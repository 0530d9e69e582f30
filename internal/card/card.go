package card

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
)

var (
	ErrNotFound      = errors.New("card not found")
	ErrEmptyName     = errors.New("card name cannot be empty")
	ErrNegativeLimit = errors.New("card limit cannot be negative")
)

// Card is a credit card and its statement configuration.
type Card struct {
	ID         uuid.UUID
	Name       string
	LimitCents int64
	ClosingDay int
	DueDay     int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
}

func (c *Card) Cycle() billingcycle.Cycle {
	return billingcycle.Cycle{ClosingDay: c.ClosingDay, DueDay: c.DueDay}
}
