package importcsv

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

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
	CreatedAt      time.Time           `json:"created_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

// entryDTO is one parsed row, sent back on conflict and accepted again on confirm.
type entryDTO struct {
	Amount         int64            `json:"amount" validate:"gt=0"`
	Type           transaction.Type `json:"type" validate:"oneof=income expense"`
	Category       string           `json:"category,omitempty" validate:"omitempty,category"`
	Description    string           `json:"description" validate:"required"`
	RawDescription string           `json:"raw_description"`
	Date           time.Time        `json:"date" validate:"required"`
	CardID         *uuid.UUID       `json:"card_id,omitempty"`
}

type conflictResponse struct {
	Incoming entryDTO            `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []entryDTO         `json:"new"`
	Conflicts []conflictResponse `json:"conflicts"`
}

type confirmRequest struct {
	Params []entryDTO `json:"params" validate:"dive"`
}

func (e entryDTO) params() transaction.CreateParams {
	return transaction.CreateParams{
		Amount:         e.Amount,
		Type:           e.Type,
		Status:         transaction.StatusDraft,
		Category:       e.Category,
		Description:    e.Description,
		RawDescription: e.RawDescription,
		Date:           e.Date,
		CardID:         e.CardID,
	}
}

func toEntryDTO(p transaction.CreateParams) entryDTO {
	return entryDTO{
		Amount:         p.Amount,
		Type:           p.Type,
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date,
		CardID:         p.CardID,
	}
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
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
	}
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	return importSuccessResponse{
		Imported: len(txs),
		Transactions: lo.Map(txs, func(tx *transaction.Transaction, _ int) transactionResponse {
			return toResponse(tx)
		}),
	}
}

func toConflictResponse(result *transaction.ImportResult) importConflictResponse {
	return importConflictResponse{
		New: lo.Map(result.New, func(p transaction.CreateParams, _ int) entryDTO {
			return toEntryDTO(p)
		}),
		Conflicts: lo.Map(result.Conflicts, func(c transaction.Conflict, _ int) conflictResponse {
			return conflictResponse{Incoming: toEntryDTO(c.Incoming), Existing: toResponse(c.Existing)}
		}),
	}
}
