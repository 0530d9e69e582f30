package statement

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
)

type Handler struct {
	svc       *statement.Service
	formatter *billingcycle.Formatter
	now       func() time.Time
}

func NewHandler(svc *statement.Service, formatter *billingcycle.Formatter) *Handler {
	return &Handler{svc: svc, formatter: formatter, now: time.Now}
}

// Routes expects to be mounted below a {cardID} URL parameter.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{month}", h.get)
	r.Put("/{month}/payment", h.pay)
	r.Delete("/{month}/payment", h.unpay)
}

func (h *Handler) UpcomingRoutes(r chi.Router) {
	r.Get("/", h.upcoming)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}

	statements, err := h.svc.List(r.Context(), cardID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeList(w, statements)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	cardID, month, ok := pathParams(w, r)
	if !ok {
		return
	}

	st, err := h.svc.Get(r.Context(), cardID, month)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(st)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type payRequest struct {
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	cardID, month, ok := pathParams(w, r)
	if !ok {
		return
	}

	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	paidAt := h.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	st, err := h.svc.MarkPaid(r.Context(), cardID, month, paidAt)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.toResponse(st)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) unpay(w http.ResponseWriter, r *http.Request) {
	cardID, month, ok := pathParams(w, r)
	if !ok {
		return
	}

	if err := h.svc.Unpay(r.Context(), cardID, month); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	within := 7

	if s := r.URL.Query().Get("within"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "within must be a number of days", http.StatusBadRequest)
			return
		}

		within = n
	}

	statements, err := h.svc.Upcoming(r.Context(), within)
	if err != nil {
		writeError(w, err)
		return
	}

	h.writeList(w, statements)
}

func (h *Handler) writeList(w http.ResponseWriter, statements []*statement.Statement) {
	resp := make([]statementResponse, len(statements))
	for i, st := range statements {
		resp[i] = h.toResponse(st)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func pathParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, billingcycle.Month, bool) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return uuid.Nil, billingcycle.Month{}, false
	}

	month, err := billingcycle.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
		return uuid.Nil, billingcycle.Month{}, false
	}

	return cardID, month, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, card.ErrNotFound):
		http.Error(w, "card not found", http.StatusNotFound)
	case errors.Is(err, statement.ErrNotPaid):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, statement.ErrNothingToPay):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, statement.ErrInvalidLeadDay):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("statement request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
