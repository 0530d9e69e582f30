package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListPayments(ctx context.Context, cardID uuid.UUID) ([]statement.Payment, error) {
	query := `
		SELECT card_id, reference_month, amount_cents, paid_at
		FROM invoice_payments
		WHERE card_id = $1
		ORDER BY reference_month DESC
	`

	rows, err := s.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []statement.Payment

	for rows.Next() {
		var p statement.Payment

		var ref sql.NullTime

		if err := rows.Scan(&p.CardID, &ref, &p.AmountCents, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		p.ReferenceMonth = billingcycle.MonthOf(ref.Time)
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return payments, nil
}

// SavePayment upserts, so paying an already paid statement refreshes amount and date.
func (s *Store) SavePayment(ctx context.Context, p statement.Payment) error {
	query := `
		INSERT INTO invoice_payments (card_id, reference_month, amount_cents, paid_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (card_id, reference_month)
		DO UPDATE SET amount_cents = EXCLUDED.amount_cents, paid_at = EXCLUDED.paid_at
	`

	if _, err := s.db.ExecContext(ctx, query, p.CardID, p.ReferenceMonth.Time(), p.AmountCents, p.PaidAt); err != nil {
		return fmt.Errorf("saving payment: %w", err)
	}

	return nil
}

func (s *Store) DeletePayment(ctx context.Context, cardID uuid.UUID, month billingcycle.Month) error {
	query := `DELETE FROM invoice_payments WHERE card_id = $1 AND reference_month = $2`

	res, err := s.db.ExecContext(ctx, query, cardID, month.Time())
	if err != nil {
		return fmt.Errorf("deleting payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting payment: %w", err)
	}

	if n == 0 {
		return statement.ErrNotPaid
	}

	return nil
}
