package card

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/billingcycle"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=card
type Repository interface {
	CreateCard(ctx context.Context, c *Card) error
	GetCard(ctx context.Context, id uuid.UUID) (*Card, error)
	ListCards(ctx context.Context) ([]*Card, error)
	UpdateCard(ctx context.Context, c *Card) error
	DeleteCard(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name       string
	LimitCents int64
	ClosingDay int
	DueDay     int
}

// UpdateParams holds the fields to change; nil fields are left as they are.
type UpdateParams struct {
	Name       *string
	LimitCents *int64
	ClosingDay *int
	DueDay     *int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Card, error) {
	c := &Card{
		Name:       strings.TrimSpace(params.Name),
		LimitCents: params.LimitCents,
		ClosingDay: params.ClosingDay,
		DueDay:     params.DueDay,
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCard(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Card, error) {
	return s.repo.GetCard(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Card, error) {
	return s.repo.ListCards(ctx)
}

// Update changes the card only. Entries already on the card keep the invoice month they
// were billed on; they move to the new cycle when they are next edited.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Card, error) {
	c, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = strings.TrimSpace(*params.Name)
	}

	if params.LimitCents != nil {
		c.LimitCents = *params.LimitCents
	}

	if params.ClosingDay != nil {
		c.ClosingDay = *params.ClosingDay
	}

	if params.DueDay != nil {
		c.DueDay = *params.DueDay
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCard(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCard(ctx, id)
}

// BillingCycle returns the statement configuration of a card.
func (s *Service) BillingCycle(ctx context.Context, id uuid.UUID) (billingcycle.Cycle, error) {
	c, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return billingcycle.Cycle{}, fmt.Errorf("loading card %s: %w", id, err)
	}

	return c.Cycle(), nil
}

func validate(c *Card) error {
	if c.Name == "" {
		return ErrEmptyName
	}

	if c.LimitCents < 0 {
		return ErrNegativeLimit
	}

	return c.Cycle().Validate()
}
