package statement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

type fixture struct {
	repo  *statement.MockRepository
	cards *statement.MockCardLister
	txs   *statement.MockTransactionLister
	svc   *statement.Service
	card  *card.Card
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:  statement.NewMockRepository(ctrl),
		cards: statement.NewMockCardLister(ctrl),
		txs:   statement.NewMockTransactionLister(ctrl),
		card:  &card.Card{ID: uuid.New(), Name: "Nubank", ClosingDay: 7, DueDay: 15},
	}
	f.svc = statement.NewService(f.repo, f.cards, f.txs, func() time.Time { return now })

	return f
}

func month(y int, m time.Month) billingcycle.Month {
	return billingcycle.Month{Year: y, Month: m}
}

func entry(cardID uuid.UUID, ref billingcycle.Month, amount int64, typ transaction.Type) *transaction.Transaction {
	return &transaction.Transaction{
		ID:           uuid.New(),
		Amount:       amount,
		Type:         typ,
		Date:         ref.Day(3).Time(),
		CardID:       &cardID,
		InvoiceMonth: &ref,
	}
}

func TestService_List(t *testing.T) {
	f := newFixture(t, time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC))
	id := f.card.ID

	paidAt := time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)

	f.cards.EXPECT().Get(gomock.Any(), id).Return(f.card, nil)
	f.txs.EXPECT().List(gomock.Any(), transaction.ListFilter{CardID: &id}).Return([]*transaction.Transaction{
		entry(id, month(2025, time.October), 10000, transaction.TypeExpense),
		entry(id, month(2025, time.October), 2000, transaction.TypeIncome),
		entry(id, month(2025, time.December), 700, transaction.TypeExpense),
		entry(id, month(2025, time.September), 300, transaction.TypeExpense),
		entry(id, month(2025, time.August), 900, transaction.TypeExpense),
	}, nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), id).Return([]statement.Payment{
		{CardID: id, ReferenceMonth: month(2025, time.August), AmountCents: 900, PaidAt: paidAt},
	}, nil)

	got, err := f.svc.List(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, got, 4)

	type want struct {
		ref     string
		closing string
		due     string
		total   int64
		status  statement.Status
	}

	wants := []want{
		{ref: "2025-12-01", closing: "2025-12-07", due: "2026-01-15", total: 700, status: statement.StatusOpen},
		{ref: "2025-10-01", closing: "2025-10-07", due: "2025-11-15", total: 8000, status: statement.StatusClosed},
		{ref: "2025-09-01", closing: "2025-09-07", due: "2025-10-15", total: 300, status: statement.StatusOverdue},
		{ref: "2025-08-01", closing: "2025-08-07", due: "2025-09-15", total: 900, status: statement.StatusPaid},
	}

	for i, w := range wants {
		assert.Equal(t, w.ref, got[i].ReferenceMonth.String())
		assert.Equal(t, w.closing, got[i].ClosingDate.String())
		assert.Equal(t, w.due, got[i].DueDate.String())
		assert.Equal(t, w.total, got[i].TotalCents)
		assert.Equal(t, w.status, got[i].Status)
		assert.Equal(t, "Nubank", got[i].CardName)
	}

	require.NotNil(t, got[3].PaidAt)
	assert.Equal(t, paidAt, *got[3].PaidAt)
}

func TestService_Get_Status(t *testing.T) {
	ref := month(2025, time.October)

	tests := []struct {
		name string
		now  time.Time
		want statement.Status
	}{
		{name: "BeforeClosing", now: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), want: statement.StatusOpen},
		{name: "OnClosingDay", now: time.Date(2025, 10, 7, 23, 0, 0, 0, time.UTC), want: statement.StatusOpen},
		{name: "AfterClosing", now: time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC), want: statement.StatusClosed},
		{name: "OnDueDay", now: time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC), want: statement.StatusClosed},
		{name: "AfterDue", now: time.Date(2025, 11, 16, 0, 0, 0, 0, time.UTC), want: statement.StatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now)
			id := f.card.ID

			f.cards.EXPECT().Get(gomock.Any(), id).Return(f.card, nil)
			f.txs.EXPECT().
				List(gomock.Any(), transaction.ListFilter{CardID: &id, InvoiceMonth: &ref}).
				Return([]*transaction.Transaction{entry(id, ref, 100, transaction.TypeExpense)}, nil)
			f.repo.EXPECT().ListPayments(gomock.Any(), id).Return(nil, nil)

			got, err := f.svc.Get(context.Background(), id, ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestService_Get_Status_DueDayPastMonthEnd(t *testing.T) {
	ref := month(2025, time.October)

	tests := []struct {
		name string
		now  time.Time
		want statement.Status
	}{
		{name: "OnDisplayedDueDay", now: time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC), want: statement.StatusClosed},
		{name: "DayAfter", now: time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC), want: statement.StatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now)
			f.card.DueDay = 31
			id := f.card.ID

			f.cards.EXPECT().Get(gomock.Any(), id).Return(f.card, nil)
			f.txs.EXPECT().
				List(gomock.Any(), transaction.ListFilter{CardID: &id, InvoiceMonth: &ref}).
				Return([]*transaction.Transaction{entry(id, ref, 100, transaction.TypeExpense)}, nil)
			f.repo.EXPECT().ListPayments(gomock.Any(), id).Return(nil, nil)

			got, err := f.svc.Get(context.Background(), id, ref)
			require.NoError(t, err)
			assert.Equal(t, "2025-11-31", got.DueDate.String())
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestService_Upcoming_DueDayPastMonthEnd(t *testing.T) {
	f := newFixture(t, time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC))
	f.card.DueDay = 31
	id := f.card.ID

	f.cards.EXPECT().List(gomock.Any()).Return([]*card.Card{f.card}, nil)
	f.txs.EXPECT().List(gomock.Any(), transaction.ListFilter{CardID: &id}).Return([]*transaction.Transaction{
		entry(id, month(2025, time.October), 4000, transaction.TypeExpense),
	}, nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), id).Return(nil, nil)

	got, err := f.svc.Upcoming(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, statement.StatusClosed, got[0].Status)
}

func TestService_Get_UnknownCard(t *testing.T) {
	f := newFixture(t, time.Now())
	id := uuid.New()

	f.cards.EXPECT().Get(gomock.Any(), id).Return(nil, card.ErrNotFound)

	_, err := f.svc.Get(context.Background(), id, month(2025, time.October))
	assert.ErrorIs(t, err, card.ErrNotFound)
}

func TestService_MarkPaid(t *testing.T) {
	f := newFixture(t, time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC))
	id := f.card.ID
	ref := month(2025, time.October)
	paidAt := time.Date(2025, 11, 12, 9, 0, 0, 0, time.UTC)

	f.cards.EXPECT().Get(gomock.Any(), id).Return(f.card, nil)
	f.txs.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{
		entry(id, ref, 5000, transaction.TypeExpense),
		entry(id, ref, 1000, transaction.TypeIncome),
	}, nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), id).Return(nil, nil)
	f.repo.EXPECT().SavePayment(gomock.Any(), statement.Payment{
		CardID:         id,
		ReferenceMonth: ref,
		AmountCents:    4000,
		PaidAt:         paidAt,
	}).Return(nil)

	got, err := f.svc.MarkPaid(context.Background(), id, ref, paidAt)
	require.NoError(t, err)
	assert.Equal(t, statement.StatusPaid, got.Status)
	assert.Equal(t, paidAt, *got.PaidAt)
}

func TestService_MarkPaid_NothingToPay(t *testing.T) {
	f := newFixture(t, time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC))
	id := f.card.ID
	ref := month(2025, time.October)

	f.cards.EXPECT().Get(gomock.Any(), id).Return(f.card, nil)
	f.txs.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*transaction.Transaction{
		entry(id, ref, 1000, transaction.TypeIncome),
	}, nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), id).Return(nil, nil)

	_, err := f.svc.MarkPaid(context.Background(), id, ref, time.Now())
	assert.ErrorIs(t, err, statement.ErrNothingToPay)
}

func TestService_Unpay(t *testing.T) {
	f := newFixture(t, time.Now())
	id := f.card.ID
	ref := month(2025, time.October)

	f.repo.EXPECT().DeletePayment(gomock.Any(), id, ref).Return(statement.ErrNotPaid)

	assert.ErrorIs(t, f.svc.Unpay(context.Background(), id, ref), statement.ErrNotPaid)
}

func TestService_Upcoming(t *testing.T) {
	f := newFixture(t, time.Date(2025, 11, 10, 8, 0, 0, 0, time.UTC))
	id := f.card.ID

	other := &card.Card{ID: uuid.New(), Name: "Inter", ClosingDay: 25, DueDay: 5}

	f.cards.EXPECT().List(gomock.Any()).Return([]*card.Card{f.card, other}, nil)
	f.txs.EXPECT().List(gomock.Any(), transaction.ListFilter{CardID: &id}).Return([]*transaction.Transaction{
		entry(id, month(2025, time.October), 8000, transaction.TypeExpense),
		entry(id, month(2025, time.December), 700, transaction.TypeExpense),
		entry(id, month(2025, time.September), 300, transaction.TypeExpense),
		entry(id, month(2025, time.August), 900, transaction.TypeExpense),
	}, nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), id).Return([]statement.Payment{
		{CardID: id, ReferenceMonth: month(2025, time.August), AmountCents: 900, PaidAt: time.Now()},
	}, nil)

	// Inter's October statement is due on 2025-11-05 and was refunded to zero.
	f.txs.EXPECT().List(gomock.Any(), transaction.ListFilter{CardID: &other.ID}).Return([]*transaction.Transaction{
		entry(other.ID, month(2025, time.October), 500, transaction.TypeExpense),
		entry(other.ID, month(2025, time.October), 500, transaction.TypeIncome),
	}, nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), other.ID).Return(nil, nil)

	got, err := f.svc.Upcoming(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2025-10-15", got[0].DueDate.String())
	assert.Equal(t, statement.StatusOverdue, got[0].Status)
	assert.Equal(t, "2025-11-15", got[1].DueDate.String())
	assert.Equal(t, statement.StatusClosed, got[1].Status)
}

func TestService_Upcoming_Errors(t *testing.T) {
	f := newFixture(t, time.Now())

	_, err := f.svc.Upcoming(context.Background(), -1)
	assert.ErrorIs(t, err, statement.ErrInvalidLeadDay)

	f.cards.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	_, err = f.svc.Upcoming(context.Background(), 3)
	assert.ErrorContains(t, err, "db down")
}
