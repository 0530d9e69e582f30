package billingcycle

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
)

type Handler struct {
	formatter *billingcycle.Formatter
}

func NewHandler(formatter *billingcycle.Formatter) *Handler {
	return &Handler{formatter: formatter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.info)
}

func (h *Handler) info(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	purchase, err := billingcycle.ParseDate(q.Get("purchase_date"))
	if err != nil {
		http.Error(w, "purchase_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	closingDay, err := dayParam(q.Get("closing_day"), "closing_day")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dueDay, err := dayParam(q.Get("due_day"), "due_day")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	formatter := h.formatter
	if locale := q.Get("locale"); locale != "" {
		formatter, err = billingcycle.NewFormatter(locale)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(formatter.InvoiceInfo(purchase, closingDay, dueDay)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func dayParam(s, name string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || !billingcycle.IsValidDay(day) {
		return 0, fmt.Errorf("%s must be a day between 1 and 31", name)
	}

	return day, nil
}
