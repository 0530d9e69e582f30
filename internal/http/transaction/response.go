package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

type transactionResponse struct {
	ID             uuid.UUID           `json:"id"`
	Amount         int64               `json:"amount"`
	Type           transaction.Type    `json:"type"`
	Status         transaction.Status  `json:"status"`
	Category       string              `json:"category,omitempty"`
	Description    string              `json:"description"`
	RawDescription string              `json:"raw_description,omitempty"`
	Date           time.Time           `json:"date"`
	CardID         *uuid.UUID          `json:"card_id,omitempty"`
	InvoiceMonth   *billingcycle.Month `json:"invoice_month,omitempty"`
	Installment    *installmentDTO     `json:"installment,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      *time.Time          `json:"updated_at,omitempty"`
}

type installmentDTO struct {
	Number int `json:"number"`
	Total  int `json:"total"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:             tx.ID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Status:         tx.Status,
		Category:       tx.Category,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Date:           tx.Date,
		CardID:         tx.CardID,
		InvoiceMonth:   tx.InvoiceMonth,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}

	if tx.Installment != nil {
		resp.Installment = &installmentDTO{
			Number: tx.Installment.Number,
			Total:  tx.Installment.Total,
		}
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
