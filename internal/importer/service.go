package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/metrics"
)

// Notification shown for any failed import.
const (
	FailureTitle = "File Error"
	FailureBody  = "Error selecting file"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Parse decodes a file and returns the expense records it contains.
// Empty content yields no records and no error.
func (s *Service) Parse(r io.Reader) ([]expense.Record, error) {
	return s.parse(r, false)
}

// ParseBase64 is Parse for base64 encoded content.
func (s *Service) ParseBase64(r io.Reader) ([]expense.Record, error) {
	return s.parse(r, true)
}

func (s *Service) parse(r io.Reader, base64Encoded bool) ([]expense.Record, error) {
	text, err := encoding.Decode(r, base64Encoded)
	if err != nil {
		return nil, err
	}

	if text == "" {
		return nil, nil
	}

	d := DetectDialect(text)

	rows, err := ReadRows(Reshape(text, d), d)
	if err != nil {
		return nil, fmt.Errorf("parse %s csv: %w", d, err)
	}

	var records []expense.Record

	for _, row := range rows {
		rec, ok := ParseRow(row, d)
		if !ok {
			metrics.ImportRows.WithLabelValues(metrics.RowSkipped, d.String()).Inc()
			continue
		}

		metrics.ImportRows.WithLabelValues(metrics.RowParsed, d.String()).Inc()

		records = append(records, rec)
	}

	return records, nil
}

// SelectAndParse imports the file handed over by picker. It returns nil when
// the user cancels or when anything fails; failures are reported once through
// notifier and partial results are dropped.
func (s *Service) SelectAndParse(ctx context.Context, picker Picker, notifier Notifier) []expense.Record {
	records, err := s.selectAndParse(ctx, picker)

	switch {
	case errors.Is(err, ErrCancelled):
		metrics.Imports.WithLabelValues(metrics.OutcomeCancelled).Inc()
		return nil
	case err != nil:
		metrics.Imports.WithLabelValues(metrics.OutcomeFailed).Inc()
		slog.Error("import failed", "error", err)
		notifier.Notify(FailureTitle, FailureBody)

		return nil
	}

	metrics.Imports.WithLabelValues(metrics.OutcomeSucceeded).Inc()

	return records
}

func (s *Service) selectAndParse(ctx context.Context, picker Picker) ([]expense.Record, error) {
	rc, err := picker.Pick(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	base64Encoded := false
	if ep, ok := picker.(encodedPicker); ok {
		base64Encoded = ep.Base64Encoded()
	}

	return s.parse(rc, base64Encoded)
}
