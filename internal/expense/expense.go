package expense

import (
	"time"

	"github.com/google/uuid"
)

// Categories offered for manual entry. Imported expenses may carry any text.
var Categories = []string{"Food", "Transport", "Shopping", "Others"}

const DefaultCategory = "Others"

// Record is the canonical expense shape produced by the importer and accepted
// by the service. Amount is a dot-decimal string and Date is YYYY-MM-DD when
// it could be normalized.
type Record struct {
	Amount      string `json:"amount" csv:"amount"`
	Category    string `json:"category" csv:"category"`
	Description string `json:"description" csv:"description"`
	Date        string `json:"date" csv:"date"`
}

// Expense is a persisted Record owned by a user.
type Expense struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      string
	Category    string
	Description string
	Date        string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (e *Expense) Record() Record {
	return Record{
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
}

// dupKey identifies an expense for duplicate detection.
type dupKey struct {
	Description string
	Date        string
}

func keyOf(r Record) dupKey {
	return dupKey{Description: r.Description, Date: r.Date}
}
