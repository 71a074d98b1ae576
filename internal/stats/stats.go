// Package stats computes monthly summaries over an expense list.
package stats

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

// PeriodTotal is the sum of the amounts recorded on one date.
type PeriodTotal struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
}

// CategoryTotal is the sum of the amounts recorded under one category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// ByPeriod sums the expenses of a YYYY-MM period per date, in ascending date order.
func ByPeriod(records []*expense.Expense, period string) []PeriodTotal {
	keys, sums := group(records, period, func(e *expense.Expense) string { return e.Date })

	sort.Strings(keys)

	out := make([]PeriodTotal, len(keys))
	for i, k := range keys {
		out[i] = PeriodTotal{Period: k, Total: sums[k].InexactFloat64()}
	}

	return out
}

// ByCategory sums the expenses of a YYYY-MM period per category, in order of
// first appearance.
func ByCategory(records []*expense.Expense, period string) []CategoryTotal {
	keys, sums := group(records, period, func(e *expense.Expense) string { return e.Category })

	out := make([]CategoryTotal, len(keys))
	for i, k := range keys {
		out[i] = CategoryTotal{Category: k, Total: sums[k].InexactFloat64()}
	}

	return out
}

// group sums amounts per key for the records whose date starts with period.
// Keys are returned in order of first appearance. Amounts count by their
// leading number; one without a leading number counts as zero.
func group(records []*expense.Expense, period string, key func(*expense.Expense) string) ([]string, map[string]decimal.Decimal) {
	var keys []string

	sums := make(map[string]decimal.Decimal)

	for _, e := range records {
		if e == nil || !strings.HasPrefix(e.Date, period) {
			continue
		}

		k := key(e)

		sum, seen := sums[k]
		if !seen {
			keys = append(keys, k)
		}

		sums[k] = sum.Add(amountOf(e.Amount))
	}

	return keys, sums
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// amountOf reads the longest numeric prefix of s, so "12abc" is 12 and
// "12,50" is 12. No prefix at all is zero.
func amountOf(s string) decimal.Decimal {
	d, err := decimal.NewFromString(numericPrefix.FindString(strings.TrimSpace(s)))
	if err != nil {
		return decimal.Zero
	}

	return d
}
