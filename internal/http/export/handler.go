package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/http/authn"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period != "" {
		if _, err := time.Parse("2006-01", period); err != nil {
			http.Error(w, "period must be YYYY-MM", http.StatusBadRequest)
			return
		}
	}

	// Buffered so a failure can still be reported with a proper status.
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), authn.MustUserID(r), period, &buf); err != nil {
		slog.Error("export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(period)))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
