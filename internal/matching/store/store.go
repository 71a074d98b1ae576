package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindCategory returns the category of the rule whose pattern occurs in
// description, or "" when none does. Patterns match literally, so "%" and "_"
// in a learned description are not wildcards. The longest pattern wins; among
// equal lengths the newest rule does.
func (s *Store) FindCategory(ctx context.Context, userID uuid.UUID, description string) (string, error) {
	query := `
		SELECT category
		FROM category_rules
		WHERE user_id = $1
		  AND $2 ILIKE '%' || replace(replace(replace(raw_pattern, '\', '\\'), '%', '\%'), '_', '\_') || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var category string

	err := s.db.QueryRowContext(ctx, query, userID, description).Scan(&category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding category: %w", err)
	}

	return category, nil
}

func (s *Store) CreateRule(ctx context.Context, userID uuid.UUID, pattern, category string) error {
	query := `
		INSERT INTO category_rules (user_id, raw_pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, userID, pattern, category)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
