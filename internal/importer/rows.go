package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

// Row maps lowercased, trimmed header names to the raw cell values of one
// data record. Cells missing from a short record are absent.
type Row map[string]string

// ReadRows parses delimited text whose first record is the header.
func ReadRows(text string, d Dialect) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = d.Profile().Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		row := make(Row, len(keys))

		for i, cell := range record {
			if i >= len(keys) {
				break
			}

			row[keys[i]] = cell
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// ParseRow maps a row onto a Record using the dialect's columns. Rows whose
// amount cell is missing or blank are not expenses and are skipped.
func ParseRow(row Row, d Dialect) (expense.Record, bool) {
	p := d.Profile()

	amount, ok := row[p.AmountCol]
	if !ok || strings.TrimSpace(amount) == "" {
		return expense.Record{}, false
	}

	return expense.Record{
		Amount:      NormalizeAmount(amount),
		Category:    row[p.CategoryCol],
		Description: row[p.DescCol],
		Date:        NormalizeDate(row[p.DateCol]),
	}, true
}
