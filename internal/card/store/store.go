package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/drepessoal/internal/card"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectCardColumns = `id, name, limit_cents, closing_day, due_day, created_at, updated_at, deleted_at`

func scanCard(s scanner) (*card.Card, error) {
	var c card.Card
	if err := s.Scan(
		&c.ID, &c.Name, &c.LimitCents, &c.ClosingDay, &c.DueDay,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) CreateCard(ctx context.Context, c *card.Card) error {
	query := `
		INSERT INTO cards (name, limit_cents, closing_day, due_day, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.LimitCents, c.ClosingDay, c.DueDay).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating card: %w", err)
	}

	return nil
}

func (s *Store) GetCard(ctx context.Context, id uuid.UUID) (*card.Card, error) {
	query := `SELECT ` + selectCardColumns + ` FROM cards WHERE id = $1 AND deleted_at IS NULL`

	c, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, card.ErrNotFound
		}

		return nil, fmt.Errorf("getting card: %w", err)
	}

	return c, nil
}

func (s *Store) ListCards(ctx context.Context) ([]*card.Card, error) {
	query := `SELECT ` + selectCardColumns + ` FROM cards WHERE deleted_at IS NULL ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	defer rows.Close()

	var cards []*card.Card

	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}

		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards: %w", err)
	}

	return cards, nil
}

func (s *Store) UpdateCard(ctx context.Context, c *card.Card) error {
	query := `
		UPDATE cards
		SET name = $1, limit_cents = $2, closing_day = $3, due_day = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.LimitCents, c.ClosingDay, c.DueDay, c.ID).
		Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return card.ErrNotFound
		}

		return fmt.Errorf("updating card: %w", err)
	}

	return nil
}

func (s *Store) DeleteCard(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE cards SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}

	if n == 0 {
		return card.ErrNotFound
	}

	return nil
}
