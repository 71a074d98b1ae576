package stats

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/http/authn"
	"github.com/MrJamesThe3rd/tally/internal/stats"
)

const periodLayout = "2006-01"

type Handler struct {
	expenses *expense.Service
	now      func() time.Time
}

func NewHandler(expenses *expense.Service) *Handler {
	return &Handler{expenses: expenses, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/period", h.byPeriod)
	r.Get("/category", h.byCategory)
}

type periodResponse struct {
	Period string              `json:"period"`
	Totals []stats.PeriodTotal `json:"totals"`
}

type categoryResponse struct {
	Period string                `json:"period"`
	Totals []stats.CategoryTotal `json:"totals"`
}

func (h *Handler) byPeriod(w http.ResponseWriter, r *http.Request) {
	period, records, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, periodResponse{Period: period, Totals: stats.ByPeriod(records, period)})
}

func (h *Handler) byCategory(w http.ResponseWriter, r *http.Request) {
	period, records, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, categoryResponse{Period: period, Totals: stats.ByCategory(records, period)})
}

// load reads the period query parameter, defaulting to the current month, and
// the user's full expense list. It writes the error response itself.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (string, []*expense.Expense, bool) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = h.now().Format(periodLayout)
	}

	if _, err := time.Parse(periodLayout, period); err != nil {
		http.Error(w, "period must be YYYY-MM", http.StatusBadRequest)
		return "", nil, false
	}

	records, err := h.expenses.List(r.Context(), authn.MustUserID(r), expense.ListFilter{})
	if err != nil {
		slog.Error("listing expenses", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return "", nil, false
	}

	return period, records, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
