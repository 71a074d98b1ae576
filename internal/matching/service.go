package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

var ErrEmptyRule = errors.New("pattern and category must not be empty")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindCategory(ctx context.Context, userID uuid.UUID, description string) (string, error)
	CreateRule(ctx context.Context, userID uuid.UUID, pattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest rule pattern contained in the
// description, or an empty string when no rule matches.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, description string) (string, error) {
	return s.repo.FindCategory(ctx, userID, description)
}

// Learn remembers that descriptions containing pattern belong to category.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, pattern, category string) error {
	pattern = strings.TrimSpace(pattern)
	category = strings.TrimSpace(category)

	if pattern == "" || category == "" {
		return ErrEmptyRule
	}

	return s.repo.CreateRule(ctx, userID, pattern, category)
}

// Categorize fills in blank categories from the user's rules. Categories
// carried by the source file are never replaced. The input is not modified.
func (s *Service) Categorize(ctx context.Context, userID uuid.UUID, records []expense.Record) ([]expense.Record, error) {
	out := make([]expense.Record, len(records))

	for i, r := range records {
		out[i] = r

		if strings.TrimSpace(r.Category) != "" {
			continue
		}

		category, err := s.repo.FindCategory(ctx, userID, r.Description)
		if err != nil {
			return nil, fmt.Errorf("suggesting category for %q: %w", r.Description, err)
		}

		if category != "" {
			out[i].Category = category
		}
	}

	return out, nil
}
