package importcsv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	"github.com/MrJamesThe3rd/drepessoal/internal/categorize"
	"github.com/MrJamesThe3rd/drepessoal/internal/importer"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
	"github.com/MrJamesThe3rd/drepessoal/internal/validator"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc   *importer.Service
	txSvc       *transaction.Service
	categorySvc *categorize.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, categorySvc *categorize.Service) *Handler {
	return &Handler{
		importSvc:   importSvc,
		txSvc:       txSvc,
		categorySvc: categorySvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

// upload is the multipart form of an import: the bank profile, an optional card the
// whole file belongs to, and the CSV itself.
type upload struct {
	bank   importer.Bank
	cardID *uuid.UUID
	file   multipart.File
}

func parseUpload(r *http.Request) (*upload, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	u := &upload{bank: importer.Bank(r.FormValue("bank"))}
	if u.bank == "" {
		return nil, errors.New("bank field is required")
	}

	if s := r.FormValue("card_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, errors.New("invalid card_id")
		}

		u.cardID = &id
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("file field is required")
	}

	u.file = file

	return u, nil
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	u, err := parseUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer u.file.Close()

	params, err := h.importSvc.Import(u.bank, u.file, u.cardID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.suggestCategories(r.Context(), params)

	result, err := h.txSvc.ImportBatch(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	if len(result.Conflicts) > 0 {
		writeJSON(w, http.StatusConflict, toConflictResponse(result))
		return
	}

	writeJSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

// suggestCategories fills in the category of each parsed row. A failed lookup leaves
// the row uncategorised for review instead of failing the import.
func (h *Handler) suggestCategories(ctx context.Context, params []transaction.CreateParams) {
	for i, p := range params {
		suggested, err := h.categorySvc.Suggest(ctx, p.RawDescription)
		if err != nil {
			slog.Warn("category suggestion failed", "description", p.RawDescription, "error", err)
			continue
		}

		params[i].Category = suggested
	}
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := validator.ValidateRequest(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := lo.Map(req.Params, func(e entryDTO, _ int) transaction.CreateParams {
		return e.params()
	})

	txs, err := h.txSvc.CreateBatch(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, card.ErrNotFound):
		http.Error(w, "card not found", http.StatusUnprocessableEntity)
	default:
		slog.Error("import failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
