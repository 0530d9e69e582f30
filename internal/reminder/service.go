package reminder

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
	"github.com/MrJamesThe3rd/drepessoal/internal/statement"
)

const maxConcurrentNotifications = 4

//go:generate mockgen -source=service.go -destination=service_mock.go -package=reminder
type StatementSource interface {
	Upcoming(ctx context.Context, within int) ([]*statement.Statement, error)
}

type Service struct {
	statements StatementSource
	notifier   Notifier
	formatter  *billingcycle.Formatter
	leadDays   int
}

func NewService(statements StatementSource, notifier Notifier, formatter *billingcycle.Formatter, leadDays int) *Service {
	return &Service{
		statements: statements,
		notifier:   notifier,
		formatter:  formatter,
		leadDays:   leadDays,
	}
}

// Run sends one reminder per unpaid statement that is overdue or due within the lead days,
// returning how many were delivered.
func (s *Service) Run(ctx context.Context) (int, error) {
	upcoming, err := s.statements.Upcoming(ctx, s.leadDays)
	if err != nil {
		return 0, fmt.Errorf("loading upcoming statements: %w", err)
	}

	reminders := make([]Reminder, len(upcoming))
	for i, st := range upcoming {
		reminders[i] = render(st, s.formatter)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentNotifications)

	for _, r := range reminders {
		g.Go(func() error {
			if err := s.notifier.Notify(gctx, r); err != nil {
				return fmt.Errorf("notifying %s %s: %w", r.CardName, r.ReferenceMonth.Key(), err)
			}

			slog.Info("reminder sent", "card", r.CardName, "month", r.ReferenceMonth.Key(), "overdue", r.Overdue)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	return len(reminders), nil
}
