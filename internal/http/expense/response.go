package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/expense"
)

type Response struct {
	ID          uuid.UUID  `json:"id"`
	Amount      string     `json:"amount"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func ToResponse(e *expense.Expense) Response {
	return Response{
		ID:          e.ID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToResponseList(es []*expense.Expense) []Response {
	resp := make([]Response, len(es))
	for i, e := range es {
		resp[i] = ToResponse(e)
	}

	return resp
}
