// Package mailer delivers invoice reminders over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/MrJamesThe3rd/drepessoal/internal/reminder"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender mails each reminder to the configured recipient.
type Sender struct {
	cfg  Config
	send sendFunc
}

func NewSender(cfg Config) *Sender {
	return &Sender{
		cfg: cfg,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

func (s *Sender) Notify(ctx context.Context, r reminder.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{s.cfg.To}
	e.Subject = r.Subject
	e.Text = []byte(r.Body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}

	if err := s.send(e, addr, auth); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	slog.Debug("email sent", "to", s.cfg.To, "subject", e.Subject)

	return nil
}
