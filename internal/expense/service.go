package expense

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, userID, id uuid.UUID) (*Expense, error)
	ListExpenses(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, userID, id uuid.UUID) error
	DeleteAllExpenses(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	repo             Repository
	writeConcurrency int
	now              func() time.Time
}

// NewService returns a Service that persists imports with at most
// writeConcurrency concurrent writes.
func NewService(repo Repository, writeConcurrency int) *Service {
	if writeConcurrency < 1 {
		writeConcurrency = 1
	}

	return &Service{
		repo:             repo,
		writeConcurrency: writeConcurrency,
		now:              time.Now,
	}
}

// ListFilter narrows a listing. Period is a YYYY-MM prefix matched against Date.
type ListFilter struct {
	Period string
}

// Create validates a manually entered record and stores it. A blank category
// falls back to DefaultCategory.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, r Record) (*Expense, error) {
	if strings.TrimSpace(r.Category) == "" {
		r.Category = DefaultCategory
	}

	if err := Validate(r, s.now()); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListExpenses(ctx, userID, ListFilter{Period: r.Date[:7]})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	for _, e := range existing {
		if keyOf(e.Record()) == keyOf(r) {
			return nil, ErrDuplicate
		}
	}

	e := newExpense(userID, r)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, userID, filter)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, r Record) (*Expense, error) {
	if err := Validate(r, s.now()); err != nil {
		return nil, err
	}

	e, err := s.repo.GetExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	e.Amount = r.Amount
	e.Category = r.Category
	e.Description = r.Description
	e.Date = r.Date

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteExpense(ctx, userID, id)
}

// Clear removes every expense of the user.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.repo.DeleteAllExpenses(ctx, userID)
}

type ImportResult struct {
	Imported []*Expense
	Skipped  []Record
}

// ImportBatch stores the records that do not match an existing expense by
// description and date. It returns ErrDuplicate when every record matches.
// Imported records are stored as given, without validation.
func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, records []Record) (*ImportResult, error) {
	if len(records) == 0 {
		return &ImportResult{}, nil
	}

	existing, err := s.repo.ListExpenses(ctx, userID, ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	lookup := make(map[dupKey]struct{}, len(existing))
	for _, e := range existing {
		lookup[keyOf(e.Record())] = struct{}{}
	}

	var fresh []Record

	var skipped []Record

	for _, r := range records {
		if _, found := lookup[keyOf(r)]; found {
			skipped = append(skipped, r)
			continue
		}

		fresh = append(fresh, r)
	}

	if len(fresh) == 0 {
		return &ImportResult{Skipped: skipped}, ErrDuplicate
	}

	imported := make([]*Expense, len(fresh))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.writeConcurrency)

	for i, r := range fresh {
		g.Go(func() error {
			e := newExpense(userID, r)
			if err := s.repo.CreateExpense(gctx, e); err != nil {
				return fmt.Errorf("creating expense %q on %s: %w", r.Description, r.Date, err)
			}

			imported[i] = e

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ImportResult{Imported: imported, Skipped: skipped}, nil
}

func newExpense(userID uuid.UUID, r Record) *Expense {
	return &Expense{
		UserID:      userID,
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date,
	}
}
