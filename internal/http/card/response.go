package card

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/card"
)

type cardResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	LimitCents int64      `json:"limit_cents"`
	ClosingDay int        `json:"closing_day"`
	DueDay     int        `json:"due_day"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func toResponse(c *card.Card) cardResponse {
	return cardResponse{
		ID:         c.ID,
		Name:       c.Name,
		LimitCents: c.LimitCents,
		ClosingDay: c.ClosingDay,
		DueDay:     c.DueDay,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
