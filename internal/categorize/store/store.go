package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// likeEscaper makes a learned pattern match literally inside ILIKE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(rawPattern string) string {
	return likeEscaper.Replace(rawPattern)
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindCategory returns the category of the longest rule whose pattern appears in
// rawDescription, newest rule first on ties.
func (s *Store) FindCategory(ctx context.Context, rawDescription string) (string, error) {
	query := `
		SELECT category
		FROM category_rules
		WHERE $1 ILIKE '%' || like_pattern || '%' ESCAPE '\'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("finding category: %w", err)
	}

	return category, nil
}

func (s *Store) CreateRule(ctx context.Context, rawPattern, category string) error {
	query := `
		INSERT INTO category_rules (raw_pattern, like_pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, likePattern(rawPattern), category); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
