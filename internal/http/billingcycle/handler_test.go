package billingcycle_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	handler "github.com/MrJamesThe3rd/drepessoal/internal/http/billingcycle"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	f, err := billingcycle.NewFormatter("en_US")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/billing-cycle", handler.NewHandler(f).Routes)

	return r
}

func TestHandler_Info(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/billing-cycle?purchase_date=2025-10-31&closing_day=7&due_day=15", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"reference_month": "2025-11-01",
		"due_date": "2025-12-15",
		"invoice_month": "November 2025",
		"due_date_formatted": "12/15/2025"
	}`, rec.Body.String())
}

func TestHandler_Info_LocaleOverride(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/billing-cycle?purchase_date=2025-12-20&closing_day=15&due_day=5&locale=pt_BR", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got billingcycle.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2026-01-01", got.ReferenceMonth.String())
	assert.Equal(t, "2026-02-05", got.DueDate.String())
	assert.Contains(t, got.InvoiceMonth, "2026")
	assert.Equal(t, "05/02/2026", got.DueDateFormatted)
}

func TestHandler_Info_BadRequest(t *testing.T) {
	router := newRouter(t)

	tests := map[string]string{
		"MissingDate":   "/billing-cycle?closing_day=7&due_day=15",
		"BadDate":       "/billing-cycle?purchase_date=31/10/2025&closing_day=7&due_day=15",
		"ImpossibleDay": "/billing-cycle?purchase_date=2025-02-30&closing_day=7&due_day=15",
		"ClosingZero":   "/billing-cycle?purchase_date=2025-10-31&closing_day=0&due_day=15",
		"DueTooLarge":   "/billing-cycle?purchase_date=2025-10-31&closing_day=7&due_day=32",
		"DueNotNumber":  "/billing-cycle?purchase_date=2025-10-31&closing_day=7&due_day=x",
		"UnknownLocale": "/billing-cycle?purchase_date=2025-10-31&closing_day=7&due_day=15&locale=ja_JP",
	}

	for name, url := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
