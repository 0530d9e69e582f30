package categorize

import (
	"context"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=categorize
type Repository interface {
	FindCategory(ctx context.Context, rawDescription string) (string, error)
	CreateRule(ctx context.Context, rawPattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest pattern contained in rawDescription,
// or an empty string when nothing matches.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (string, error) {
	if strings.TrimSpace(rawDescription) == "" {
		return "", nil
	}

	return s.repo.FindCategory(ctx, rawDescription)
}

// Learn remembers that descriptions containing rawPattern belong to category.
func (s *Service) Learn(ctx context.Context, rawPattern, category string) error {
	rawPattern = strings.TrimSpace(rawPattern)
	if rawPattern == "" {
		return ErrEmptyPattern
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if !IsCategory(category) {
		return ErrUnknownCategory
	}

	return s.repo.CreateRule(ctx, rawPattern, category)
}
