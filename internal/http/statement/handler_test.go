package statement_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	handler "github.com/MrJamesThe3rd/drepessoal/internal/http/statement"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
)

type fixture struct {
	router http.Handler
	repo   *statement.MockRepository
	cards  *statement.MockCardLister
	txs    *statement.MockTransactionLister
	card   *card.Card
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:  statement.NewMockRepository(ctrl),
		cards: statement.NewMockCardLister(ctrl),
		txs:   statement.NewMockTransactionLister(ctrl),
		card:  &card.Card{ID: uuid.New(), Name: "Nubank", ClosingDay: 7, DueDay: 15},
	}

	now := func() time.Time { return time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC) }
	svc := statement.NewService(f.repo, f.cards, f.txs, now)

	formatter, err := billingcycle.NewFormatter("en_US")
	require.NoError(t, err)

	h := handler.NewHandler(svc, formatter)

	r := chi.NewRouter()
	r.Route("/cards/{cardID}/statements", h.Routes)
	r.Route("/statements/upcoming", h.UpcomingRoutes)
	f.router = r

	return f
}

func (f *fixture) billed(ref billingcycle.Month, amounts ...int64) []*transaction.Transaction {
	txs := make([]*transaction.Transaction, len(amounts))
	for i, a := range amounts {
		txs[i] = &transaction.Transaction{
			ID:           uuid.New(),
			Amount:       a,
			Type:         transaction.TypeExpense,
			Description:  "Padaria",
			Date:         ref.Day(2).Time(),
			CardID:       &f.card.ID,
			InvoiceMonth: &ref,
		}
	}

	return txs
}

func TestHandler_Get(t *testing.T) {
	f := newFixture(t)
	ref := billingcycle.Month{Year: 2025, Month: time.October}

	entries := f.billed(ref, 1200, 800)
	entries[1].Installment = &transaction.Installment{Number: 2, Total: 3}

	f.cards.EXPECT().Get(gomock.Any(), f.card.ID).Return(f.card, nil)
	f.txs.EXPECT().List(gomock.Any(), gomock.Any()).Return(entries, nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), f.card.ID).Return(nil, nil)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards/"+f.card.ID.String()+"/statements/2025-10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2025-10-01", got["reference_month"])
	assert.Equal(t, "October 2025", got["invoice_month"])
	assert.Equal(t, "2025-10-07", got["closing_date"])
	assert.Equal(t, "2025-11-15", got["due_date"])
	assert.Equal(t, "11/15/2025", got["due_date_formatted"])
	assert.InDelta(t, 2000, got["total_cents"], 0)
	assert.Equal(t, "closed", got["status"])

	txs, ok := got["transactions"].([]any)
	require.True(t, ok)
	require.Len(t, txs, 2)
	assert.Equal(t, "2/3", txs[1].(map[string]any)["installment"])
}

func TestHandler_Get_BadParams(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards/nope/statements/2025-10", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards/"+f.card.ID.String()+"/statements/october", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Pay(t *testing.T) {
	f := newFixture(t)
	ref := billingcycle.Month{Year: 2025, Month: time.October}
	paidAt := time.Date(2025, 11, 12, 9, 30, 0, 0, time.UTC)

	f.cards.EXPECT().Get(gomock.Any(), f.card.ID).Return(f.card, nil)
	f.txs.EXPECT().List(gomock.Any(), gomock.Any()).Return(f.billed(ref, 4990), nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), f.card.ID).Return(nil, nil)
	f.repo.EXPECT().SavePayment(gomock.Any(), statement.Payment{
		CardID:         f.card.ID,
		ReferenceMonth: ref,
		AmountCents:    4990,
		PaidAt:         paidAt,
	}).Return(nil)

	body := `{"paid_at":"2025-11-12T09:30:00Z"}`
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/cards/"+f.card.ID.String()+"/statements/2025-10/payment", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"paid"`)
}

func TestHandler_Pay_NothingToPay(t *testing.T) {
	f := newFixture(t)

	f.cards.EXPECT().Get(gomock.Any(), f.card.ID).Return(f.card, nil)
	f.txs.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), f.card.ID).Return(nil, nil)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/cards/"+f.card.ID.String()+"/statements/2025-10/payment", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_Unpay_NotPaid(t *testing.T) {
	f := newFixture(t)
	ref := billingcycle.Month{Year: 2025, Month: time.October}

	f.repo.EXPECT().DeletePayment(gomock.Any(), f.card.ID, ref).Return(statement.ErrNotPaid)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cards/"+f.card.ID.String()+"/statements/2025-10/payment", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_List_UnknownCard(t *testing.T) {
	f := newFixture(t)

	f.cards.EXPECT().Get(gomock.Any(), f.card.ID).Return(nil, card.ErrNotFound)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cards/"+f.card.ID.String()+"/statements", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Upcoming(t *testing.T) {
	f := newFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statements/upcoming?within=-2", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.cards.EXPECT().List(gomock.Any()).Return([]*card.Card{f.card}, nil)
	f.txs.EXPECT().List(gomock.Any(), gomock.Any()).Return(f.billed(billingcycle.Month{Year: 2025, Month: time.October}, 300), nil)
	f.repo.EXPECT().ListPayments(gomock.Any(), f.card.ID).Return(nil, nil)

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/statements/upcoming?within=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "2025-11-15", got[0]["due_date"])
}
