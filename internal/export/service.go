package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

// Service writes a user's expenses as a CSV file the importer reads back.
type Service struct {
	expenses *expense.Service
}

func NewService(expenses *expense.Service) *Service {
	return &Service{expenses: expenses}
}

// Export writes the expenses of period (YYYY-MM, empty for all) to w with the
// header amount,category,description,date. Amounts use a decimal comma since
// the importer treats every dot as a thousands separator.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, period string, w io.Writer) error {
	expenses, err := s.expenses.List(ctx, userID, expense.ListFilter{Period: period})
	if err != nil {
		return fmt.Errorf("listing expenses: %w", err)
	}

	rows := make([]expense.Record, 0, len(expenses))

	for _, e := range expenses {
		r := e.Record()
		r.Amount = strings.ReplaceAll(r.Amount, ".", ",")
		rows = append(rows, r)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// Filename names an export of period, e.g. "tally-2024-03.csv".
func Filename(period string) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '-' {
			return r
		}

		return '_'
	}, period)

	if safe == "" {
		safe = "all"
	}

	return fmt.Sprintf("tally-%s.csv", safe)
}
