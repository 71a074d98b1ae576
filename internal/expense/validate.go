package expense

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && d.IsPositive()
	})

	return v
}

type recordForm struct {
	Amount      string `validate:"positive_amount"`
	Date        string `validate:"datetime=2006-01-02"`
	Description string `validate:"notblank"`
	Category    string `validate:"notblank"`
}

var fieldMessages = map[string]string{
	"Amount":      "please enter a valid amount",
	"Date":        "please enter a valid date",
	"Description": "description cannot be empty",
	"Category":    "please select a category",
}

// Validate checks a manually entered record. Dates after now are rejected.
// Imported records are never passed through here.
func Validate(r Record, now time.Time) error {
	form := recordForm{
		Amount:      r.Amount,
		Date:        r.Date,
		Description: r.Description,
		Category:    r.Category,
	}

	var msgs []string

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating expense: %w", err)
		}

		for _, fe := range verrs {
			msgs = append(msgs, fieldMessages[fe.Field()])
		}
	}

	if d, err := time.ParseInLocation(time.DateOnly, r.Date, now.Location()); err == nil && d.After(now) {
		msgs = append(msgs, fieldMessages["Date"])
	}

	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}

	return nil
}
