package view

import (
	"context"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	dbTimeout = 5 * time.Second
	currency  = money.EUR
)

// FormatAmount renders a stored dot-decimal amount as currency. Amounts that
// are not numbers are shown as stored.
func FormatAmount(amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}

	return formatDecimal(d)
}

// FormatTotal renders an aggregated total as currency.
func FormatTotal(total float64) string {
	return formatDecimal(decimal.NewFromFloat(total))
}

func formatDecimal(d decimal.Decimal) string {
	return money.New(d.Shift(2).Round(0).IntPart(), currency).Display()
}

// FormatPeriod turns "2024-03" into "March 2024". An empty period means all
// time.
func FormatPeriod(period string) string {
	if period == "" {
		return "All Time"
	}

	t, err := time.Parse(periodLayout, period)
	if err != nil {
		return period
	}

	return t.Format("January 2006")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
