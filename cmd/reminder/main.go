package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/MrJamesThe3rd/drepessoal/internal/amqp"
	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/card"
	cardStore "github.com/MrJamesThe3rd/drepessoal/internal/card/store"
	"github.com/MrJamesThe3rd/drepessoal/internal/config"
	"github.com/MrJamesThe3rd/drepessoal/internal/database"
	"github.com/MrJamesThe3rd/drepessoal/internal/mailer"
	"github.com/MrJamesThe3rd/drepessoal/internal/reminder"
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

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	formatter, err := billingcycle.NewFormatter(cfg.App.Locale)
	if err != nil {
		logger.Error("invalid locale", "locale", cfg.App.Locale, "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var notifiers reminder.MultiNotifier

	if cfg.AMQP.URL != "" {
		publisher, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			logger.Error("failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()

		notifiers = append(notifiers, publisher)
	}

	if cfg.SMTP.Host != "" {
		notifiers = append(notifiers, mailer.NewSender(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
		}))
	}

	if len(notifiers) == 0 {
		logger.Error("no notifier configured, set AMQP_URL or SMTP_HOST")
		os.Exit(1)
	}

	cardService := card.NewService(cardStore.New(db))
	transactionService := transaction.NewService(txStore.New(db), cardService)
	statementService := statement.NewService(statementStore.New(db), cardService, transactionService, time.Now)
	reminderService := reminder.NewService(statementService, notifiers, formatter, cfg.Reminder.LeadDays)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	run := func() {
		start := time.Now()

		sent, err := reminderService.Run(ctx)
		if err != nil {
			logger.Error("reminder run failed", "sent", sent, "error", err)
			return
		}

		logger.Info("reminder run complete", "sent", sent, "took", time.Since(start))
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Reminder.Schedule, run); err != nil {
		logger.Error("invalid reminder schedule", "schedule", cfg.Reminder.Schedule, "error", err)
		os.Exit(1)
	}

	logger.Info("starting reminder worker",
		"schedule", cfg.Reminder.Schedule,
		"lead_days", cfg.Reminder.LeadDays,
		"notifiers", len(notifiers))

	if cfg.Reminder.RunOnStart {
		run()
	}

	c.Start()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	<-c.Stop().Done()
	logger.Info("reminder worker stopped")
}
