package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

// CycleSource resolves the billing cycle of a card.
type CycleSource interface {
	BillingCycle(ctx context.Context, cardID uuid.UUID) (billingcycle.Cycle, error)
}

type Service struct {
	repo   Repository
	cycles CycleSource
}

func NewService(repo Repository, cycles CycleSource) *Service {
	return &Service{repo: repo, cycles: cycles}
}

type CreateParams struct {
	Amount         int64
	Type           Type
	Status         Status
	Category       string
	Description    string
	RawDescription string
	Date           time.Time
	CardID         *uuid.UUID
}

type ListFilter struct {
	Status       *Status
	StartDate    *time.Time
	EndDate      *time.Time
	CardID       *uuid.UUID
	InvoiceMonth *billingcycle.Month
	Category     *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if params.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx := newTransaction(params)

	if err := s.stamp(ctx, tx, nil); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateInstallments splits a card purchase into n parts billed on consecutive invoices,
// starting with the invoice the purchase date falls on. The cents that do not divide
// evenly go on the first installment.
func (s *Service) CreateInstallments(ctx context.Context, params CreateParams, n int) ([]*Transaction, error) {
	if n < MinInstallments || n > MaxInstallments {
		return nil, ErrInvalidInstallments
	}

	if params.CardID == nil {
		return nil, ErrInstallmentsNeedCard
	}

	if params.Type != TypeExpense {
		return nil, ErrCardIncome
	}

	if params.Amount < int64(n) {
		return nil, ErrInvalidAmount
	}

	cycle, err := s.cycles.BillingCycle(ctx, *params.CardID)
	if err != nil {
		return nil, err
	}

	ref := billingcycle.ReferenceMonth(billingcycle.DateOf(params.Date), cycle.ClosingDay)
	share := params.Amount / int64(n)
	remainder := params.Amount % int64(n)

	txs := make([]*Transaction, n)
	for i := range n {
		tx := newTransaction(params)
		tx.Amount = share
		if i == 0 {
			tx.Amount += remainder
		}

		month := ref.AddMonths(i)
		tx.InvoiceMonth = &month
		tx.Installment = &Installment{Number: i + 1, Total: n}
		txs[i] = tx
	}

	itx, err := s.repo.BeginImport(ctx, params.Date, params.Date)
	if err != nil {
		return nil, fmt.Errorf("begin installments: %w", err)
	}
	defer itx.Rollback()

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create installments: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit installments: %w", err)
	}

	return txs, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Update persists tx, re-deriving its invoice month from its date and card.
func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}

	if err := s.stamp(ctx, tx, nil); err != nil {
		return err
	}

	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.Type, d.RawDescription, d.CardID)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[keyOf(p.Date, p.Amount, p.Type, p.RawDescription, p.CardID)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs, err := s.prepare(ctx, newParams)
	if err != nil {
		return nil, err
	}

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch stores params without duplicate detection, used once the caller resolved conflicts.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs, err := s.prepare(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

type dupKey struct {
	Date           string
	Amount         int64
	Type           Type
	RawDescription string
	CardID         uuid.UUID
}

func keyOf(date time.Time, amount int64, typ Type, raw string, cardID *uuid.UUID) dupKey {
	k := dupKey{
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

// prepare builds the transactions of a batch and stamps their invoice months,
// resolving each card's cycle once.
func (s *Service) prepare(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	cycles := make(map[uuid.UUID]billingcycle.Cycle)

	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = newTransaction(p)
		if err := s.stamp(ctx, txs[i], cycles); err != nil {
			return nil, err
		}
	}

	return txs, nil
}

// stamp sets the invoice month of a card entry and clears it for everything else.
// Installments keep their offset from the purchase's own invoice.
func (s *Service) stamp(ctx context.Context, tx *Transaction, cache map[uuid.UUID]billingcycle.Cycle) error {
	if tx.CardID == nil {
		tx.InvoiceMonth = nil
		return nil
	}

	cycle, ok := cache[*tx.CardID]
	if !ok {
		var err error

		cycle, err = s.cycles.BillingCycle(ctx, *tx.CardID)
		if err != nil {
			return err
		}

		if cache != nil {
			cache[*tx.CardID] = cycle
		}
	}

	ref := billingcycle.ReferenceMonth(billingcycle.DateOf(tx.Date), cycle.ClosingDay)
	if tx.Installment != nil {
		ref = ref.AddMonths(tx.Installment.Number - 1)
	}

	tx.InvoiceMonth = &ref

	return nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func newTransaction(p CreateParams) *Transaction {
	status := p.Status
	if status == "" {
		status = StatusConfirmed
	}

	return &Transaction{
		Amount:         p.Amount,
		Type:           p.Type,
		Status:         status,
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Date:           p.Date,
		CardID:         p.CardID,
	}
}
