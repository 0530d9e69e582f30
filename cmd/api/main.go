package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	cardStore "github.com/MrJamesThe3rd/drepessoal/internal/card/store"
	"github.com/MrJamesThe3rd/drepessoal/internal/categorize"
	categorizeStore "github.com/MrJamesThe3rd/drepessoal/internal/categorize/store"
	"github.com/MrJamesThe3rd/drepessoal/internal/config"
	"github.com/MrJamesThe3rd/drepessoal/internal/database"
	dreHttp "github.com/MrJamesThe3rd/drepessoal/internal/http"
	billingcycleHandler "github.com/MrJamesThe3rd/drepessoal/internal/http/billingcycle"
	cardHandler "github.com/MrJamesThe3rd/drepessoal/internal/http/card"
	categorizeHandler "github.com/MrJamesThe3rd/drepessoal/internal/http/categorize"
	importHandler "github.com/MrJamesThe3rd/drepessoal/internal/http/importcsv"
	statementHandler "github.com/MrJamesThe3rd/drepessoal/internal/http/statement"
	txHandler "github.com/MrJamesThe3rd/drepessoal/internal/http/transaction"
	"github.com/MrJamesThe3rd/drepessoal/internal/importer"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
	statementStore "github.com/MrJamesThe3rd/drepessoal/internal/statement/store"
	"github.com/MrJamesThe3rd/drepessoal/internal/transaction"
	txStore "github.com/MrJamesThe3rd/drepessoal/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	formatter, err := billingcycle.NewFormatter(cfg.App.Locale)
	if err != nil {
		slog.Error("invalid locale", "locale", cfg.App.Locale, "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		cardService        = card.NewService(cardStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), cardService)
		statementService   = statement.NewService(statementStore.New(db), cardService, transactionService, time.Now)
		categorizeService  = categorize.NewService(categorizeStore.New(db))
		importService      = importer.NewService()
	)

	router := dreHttp.New(dreHttp.Handlers{
		BillingCycle: billingcycleHandler.NewHandler(formatter),
		Cards:        cardHandler.NewHandler(cardService),
		Statements:   statementHandler.NewHandler(statementService, formatter),
		Transactions: txHandler.NewHandler(transactionService),
		Import:       importHandler.NewHandler(importService, transactionService, categorizeService),
		Categories:   categorizeHandler.NewHandler(categorizeService),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "locale", formatter.Locale())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
