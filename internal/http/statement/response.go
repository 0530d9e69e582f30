package statement

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

type statementResponse struct {
	CardID           uuid.UUID          `json:"card_id"`
	CardName         string             `json:"card_name"`
	ReferenceMonth   billingcycle.Month `json:"reference_month"`
	InvoiceMonth     string             `json:"invoice_month"`
	ClosingDate      billingcycle.Date  `json:"closing_date"`
	DueDate          billingcycle.Date  `json:"due_date"`
	DueDateFormatted string             `json:"due_date_formatted"`
	TotalCents       int64              `json:"total_cents"`
	Status           statement.Status   `json:"status"`
	PaidAt           *time.Time         `json:"paid_at,omitempty"`
	Transactions     []entryResponse    `json:"transactions"`
}

type entryResponse struct {
	ID          uuid.UUID        `json:"id"`
	Amount      int64            `json:"amount"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	Installment string           `json:"installment,omitempty"`
}

func (h *Handler) toResponse(st *statement.Statement) statementResponse {
	resp := statementResponse{
		CardID:           st.CardID,
		CardName:         st.CardName,
		ReferenceMonth:   st.ReferenceMonth,
		InvoiceMonth:     h.formatter.InvoiceMonth(st.ReferenceMonth),
		ClosingDate:      st.ClosingDate,
		DueDate:          st.DueDate,
		DueDateFormatted: h.formatter.DueDate(st.DueDate),
		TotalCents:       st.TotalCents,
		Status:           st.Status,
		PaidAt:           st.PaidAt,
		Transactions:     make([]entryResponse, len(st.Transactions)),
	}

	for i, tx := range st.Transactions {
		resp.Transactions[i] = entryResponse{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Category:    tx.Category,
			Description: tx.Description,
			Date:        tx.Date,
		}

		if tx.Installment != nil {
			resp.Transactions[i].Installment = tx.Installment.String()
		}
	}

	return resp
}
