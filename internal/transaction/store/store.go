package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanTransaction reads a row in selectTransactionColumns order.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, statusStr string

	var rawDesc sql.NullString

	var invoiceMonth sql.NullTime

	var instNumber, instTotal sql.NullInt64

	if err := s.Scan(
		&tx.ID, &tx.Amount, &typeStr, &statusStr, &tx.Category, &tx.Description, &rawDesc, &tx.Date,
		&tx.CardID, &invoiceMonth, &instNumber, &instTotal,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Status = transaction.Status(statusStr)
	tx.RawDescription = rawDesc.String

	if invoiceMonth.Valid {
		m := billingcycle.MonthOf(invoiceMonth.Time)
		tx.InvoiceMonth = &m
	}

	if instNumber.Valid && instTotal.Valid {
		tx.Installment = &transaction.Installment{
			Number: int(instNumber.Int64),
			Total:  int(instTotal.Int64),
		}
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.amount, t.type, t.status, t.category, t.description, t.raw_description, t.date,
	t.card_id, t.invoice_month, t.installment_number, t.installment_total,
	t.created_at, t.updated_at, t.deleted_at
`

const insertTransactionQuery = `
	INSERT INTO transactions (
		amount, type, status, category, description, raw_description, date,
		card_id, invoice_month, installment_number, installment_total, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func insertTransaction(ctx context.Context, q queryer, tx *transaction.Transaction) error {
	number, total := installmentArgs(tx.Installment)

	return q.QueryRowContext(ctx, insertTransactionQuery,
		tx.Amount,
		tx.Type,
		tx.Status,
		tx.Category,
		tx.Description,
		tx.RawDescription,
		tx.Date,
		tx.CardID,
		monthArg(tx.InvoiceMonth),
		number,
		total,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
}

func monthArg(m *billingcycle.Month) any {
	if m == nil {
		return nil
	}

	return m.Time()
}

func installmentArgs(inst *transaction.Installment) (any, any) {
	if inst == nil {
		return nil, nil
	}

	return inst.Number, inst.Total
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if err := insertTransaction(ctx, s.db, tx); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

// where accumulates AND conditions with their positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}

	return " AND " + strings.Join(w.conds, " AND ")
}

func filterClause(filter transaction.ListFilter) *where {
	w := &where{}

	if filter.Status != nil {
		w.add("t.status = $%d", *filter.Status)
	}

	if filter.StartDate != nil {
		w.add("t.date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		w.add("t.date <= $%d", *filter.EndDate)
	}

	if filter.CardID != nil {
		w.add("t.card_id = $%d", *filter.CardID)
	}

	if filter.InvoiceMonth != nil {
		w.add("t.invoice_month = $%d", filter.InvoiceMonth.Time())
	}

	if filter.Category != nil {
		w.add("t.category = $%d", *filter.Category)
	}

	return w
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	w := filterClause(filter)

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL` + w.String() + `
		ORDER BY t.date ASC, t.installment_number ASC NULLS FIRST`

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $1, type = $2, status = $3, category = $4, description = $5, date = $6,
			card_id = $7, invoice_month = $8, updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Amount,
		tx.Type,
		tx.Status,
		tx.Category,
		tx.Description,
		tx.Date,
		tx.CardID,
		monthArg(tx.InvoiceMonth),
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return expectOne(res, "updating transaction")
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status transaction.Status) error {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return expectOne(res, "updating status")
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectOne(res, "deleting transaction")
}

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens a transaction holding an advisory lock on the date range, so two
// imports of the same statement cannot interleave their duplicate checks.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

type lookupKey struct {
	Date           string
	Amount         int64
	Type           transaction.Type
	RawDescription string
	CardID         uuid.UUID
}

func keyFor(date time.Time, amount int64, typ transaction.Type, raw string, cardID *uuid.UUID) lookupKey {
	k := lookupKey{
		Date:           date.Format(time.DateOnly),
		Amount:         amount,
		Type:           typ,
		RawDescription: raw,
	}
	if cardID != nil {
		k.CardID = *cardID
	}

	return k
}

func (itx *importTx) FindDuplicates(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[keyFor(p.Date, p.Amount, p.Type, p.RawDescription, p.CardID)] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL AND t.date >= $1 AND t.date <= $2
		ORDER BY t.date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		if _, found := keySet[keyFor(tx.Date, tx.Amount, tx.Type, tx.RawDescription, tx.CardID)]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		if err := insertTransaction(ctx, itx.tx, tx); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}
