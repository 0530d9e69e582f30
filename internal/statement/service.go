package statement

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=statement
type Repository interface {
	ListPayments(ctx context.Context, cardID uuid.UUID) ([]Payment, error)
	SavePayment(ctx context.Context, p Payment) error
	DeletePayment(ctx context.Context, cardID uuid.UUID, month billingcycle.Month) error
}

type CardLister interface {
	Get(ctx context.Context, id uuid.UUID) (*card.Card, error)
	List(ctx context.Context) ([]*card.Card, error)
}

type TransactionLister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	repo  Repository
	cards CardLister
	txs   TransactionLister
	now   func() time.Time
}

// NewService builds a statement service. now defaults to time.Now.
func NewService(repo Repository, cards CardLister, txs TransactionLister, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{repo: repo, cards: cards, txs: txs, now: now}
}

func (s *Service) today() billingcycle.Date {
	return billingcycle.DateOf(s.now())
}

// List returns every statement of a card that has entries, newest reference month first.
func (s *Service) List(ctx context.Context, cardID uuid.UUID) ([]*Statement, error) {
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}

	return s.listFor(ctx, c, s.today())
}

func (s *Service) listFor(ctx context.Context, c *card.Card, today billingcycle.Date) ([]*Statement, error) {
	txs, err := s.txs.List(ctx, transaction.ListFilter{CardID: &c.ID})
	if err != nil {
		return nil, fmt.Errorf("listing transactions of card %s: %w", c.ID, err)
	}

	payments, err := s.payments(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	billed := lo.Filter(txs, func(tx *transaction.Transaction, _ int) bool {
		return tx.InvoiceMonth != nil
	})

	groups := lo.GroupBy(billed, func(tx *transaction.Transaction) billingcycle.Month {
		return *tx.InvoiceMonth
	})

	statements := make([]*Statement, 0, len(groups))
	for month, entries := range groups {
		statements = append(statements, build(c, month, entries, payments[month], today))
	}

	slices.SortFunc(statements, func(a, b *Statement) int {
		return b.ReferenceMonth.Compare(a.ReferenceMonth)
	})

	return statements, nil
}

// Get returns the statement of a card for one reference month, empty if nothing was billed on it.
func (s *Service) Get(ctx context.Context, cardID uuid.UUID, month billingcycle.Month) (*Statement, error) {
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}

	return s.get(ctx, c, month)
}

func (s *Service) get(ctx context.Context, c *card.Card, month billingcycle.Month) (*Statement, error) {
	txs, err := s.txs.List(ctx, transaction.ListFilter{CardID: &c.ID, InvoiceMonth: &month})
	if err != nil {
		return nil, fmt.Errorf("listing transactions of card %s: %w", c.ID, err)
	}

	payments, err := s.payments(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return build(c, month, txs, payments[month], s.today()), nil
}

// MarkPaid records a payment of the statement's current total.
func (s *Service) MarkPaid(ctx context.Context, cardID uuid.UUID, month billingcycle.Month, paidAt time.Time) (*Statement, error) {
	c, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}

	st, err := s.get(ctx, c, month)
	if err != nil {
		return nil, err
	}

	if st.TotalCents <= 0 {
		return nil, ErrNothingToPay
	}

	p := Payment{
		CardID:         cardID,
		ReferenceMonth: month,
		AmountCents:    st.TotalCents,
		PaidAt:         paidAt,
	}
	if err := s.repo.SavePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("saving payment: %w", err)
	}

	st.Status = StatusPaid
	st.PaidAt = &p.PaidAt

	return st, nil
}

// Unpay removes the payment of a statement, returning ErrNotPaid when there is none.
func (s *Service) Unpay(ctx context.Context, cardID uuid.UUID, month billingcycle.Month) error {
	return s.repo.DeletePayment(ctx, cardID, month)
}

// Upcoming returns the unpaid statements of all cards that are overdue or due within
// the next `within` days, soonest due date first.
func (s *Service) Upcoming(ctx context.Context, within int) ([]*Statement, error) {
	if within < 0 {
		return nil, ErrInvalidLeadDay
	}

	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}

	today := s.today()
	horizon := today.AddDays(within)

	var upcoming []*Statement

	for _, c := range cards {
		statements, err := s.listFor(ctx, c, today)
		if err != nil {
			return nil, err
		}

		for _, st := range statements {
			if st.Status == StatusPaid || st.TotalCents <= 0 {
				continue
			}

			if st.Status == StatusOverdue || !st.DueDate.Normalized().After(horizon) {
				upcoming = append(upcoming, st)
			}
		}
	}

	slices.SortStableFunc(upcoming, func(a, b *Statement) int {
		return a.DueDate.Normalized().Compare(b.DueDate.Normalized())
	})

	return upcoming, nil
}

func (s *Service) payments(ctx context.Context, cardID uuid.UUID) (map[billingcycle.Month]*Payment, error) {
	list, err := s.repo.ListPayments(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("listing payments of card %s: %w", cardID, err)
	}

	byMonth := make(map[billingcycle.Month]*Payment, len(list))
	for i := range list {
		byMonth[list[i].ReferenceMonth] = &list[i]
	}

	return byMonth, nil
}

func build(c *card.Card, month billingcycle.Month, txs []*transaction.Transaction, paid *Payment, today billingcycle.Date) *Statement {
	cycle := c.Cycle()
	closing := cycle.ClosingDate(month)
	due := billingcycle.DueDate(month, cycle.DueDay)

	total := lo.SumBy(txs, func(tx *transaction.Transaction) int64 {
		return tx.Signed()
	})

	st := &Statement{
		CardID:         c.ID,
		CardName:       c.Name,
		ReferenceMonth: month,
		ClosingDate:    closing,
		DueDate:        due,
		TotalCents:     total,
		Transactions:   txs,
		Status:         statusOf(closing, due, today, paid != nil),
	}

	if paid != nil {
		st.PaidAt = &paid.PaidAt
	}

	return st
}
