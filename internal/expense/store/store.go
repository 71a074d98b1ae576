package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, user_id, amount, category, description, date, created_at, updated_at
func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	if err := s.Scan(
		&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.Date,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &e, nil
}

const selectExpenseColumns = `id, user_id, amount, category, description, date, created_at, updated_at`

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		INSERT INTO expenses (user_id, amount, category, description, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.UserID,
		e.Amount,
		e.Category,
		e.Description,
		e.Date,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, userID, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE id = $1 AND user_id = $2`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, userID uuid.UUID, filter expense.ListFilter) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE user_id = $1`

	args := []any{userID}

	if filter.Period != "" {
		query += " AND date LIKE $2"

		args = append(args, filter.Period+"%")
	}

	query += " ORDER BY date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return expenses, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	query := `
		UPDATE expenses
		SET amount = $1, category = $2, description = $3, date = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.Amount,
		e.Category,
		e.Description,
		e.Date,
		e.ID,
		e.UserID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.ErrNotFound
		}

		return fmt.Errorf("updating expense: %w", err)
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	if n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteAllExpenses(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("deleting expenses: %w", err)
	}

	return nil
}
