package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/drepessoal/internal/http/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/http/card"
	"github.com/MrJamesThe3rd/drepessoal/internal/http/categorize"
	"github.com/MrJamesThe3rd/drepessoal/internal/http/importcsv"
	"github.com/MrJamesThe3rd/drepessoal/internal/http/statement"
	"github.com/MrJamesThe3rd/drepessoal/internal/http/transaction"
)

type Handlers struct {
	BillingCycle *billingcycle.Handler
	Cards        *card.Handler
	Statements   *statement.Handler
	Transactions *transaction.Handler
	Import       *importcsv.Handler
	Categories   *categorize.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/billing-cycle", h.BillingCycle.Routes)

		r.Route("/cards", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Cards.Routes(r)
			r.Route("/{cardID}/statements", h.Statements.Routes)
		})

		r.Route("/statements/upcoming", h.Statements.UpcomingRoutes)

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/import", h.Import.Routes)

		r.Route("/categories", func(r chi.Router) {
			h.Categories.Routes(r)
		})
	})

	return router
}
