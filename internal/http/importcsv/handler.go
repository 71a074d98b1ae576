package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/http/authn"
	httpexpense "github.com/MrJamesThe3rd/tally/internal/http/expense"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	"github.com/MrJamesThe3rd/tally/internal/metrics"
)

type Handler struct {
	importSvc  *importer.Service
	expenseSvc *expense.Service
	matchSvc   *matching.Service
	maxBytes   int64
}

func NewHandler(importSvc *importer.Service, expenseSvc *expense.Service, matchSvc *matching.Service, maxBytes int64) *Handler {
	return &Handler{
		importSvc:  importSvc,
		expenseSvc: expenseSvc,
		matchSvc:   matchSvc,
		maxBytes:   maxBytes,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

// base64Request is sent by clients that can only read files as base64.
type base64Request struct {
	ContentBase64 string `json:"content_base64"`
}

type importResponse struct {
	Imported int                    `json:"imported"`
	Skipped  int                    `json:"skipped"`
	Expenses []httpexpense.Response `json:"expenses"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	picker, cleanup, err := h.picker(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer cleanup()

	var failure string

	notifier := importer.NotifierFunc(func(title, body string) {
		failure = title + ": " + body
	})

	records := h.importSvc.SelectAndParse(r.Context(), picker, notifier)
	if failure != "" {
		http.Error(w, failure, http.StatusBadRequest)
		return
	}

	userID := authn.MustUserID(r)

	records, err = h.matchSvc.Categorize(r.Context(), userID, records)
	if err != nil {
		slog.Error("categorizing import", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	result, err := h.expenseSvc.ImportBatch(r.Context(), userID, records)
	if errors.Is(err, expense.ErrDuplicate) {
		writeJSON(w, http.StatusConflict, importResponse{
			Skipped:  len(result.Skipped),
			Expenses: []httpexpense.Response{},
		})

		return
	}

	if err != nil {
		slog.Error("storing import", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	metrics.ExpensesWritten.Add(float64(len(result.Imported)))

	status := http.StatusCreated
	if len(result.Imported) == 0 {
		status = http.StatusOK
	}

	writeJSON(w, status, importResponse{
		Imported: len(result.Imported),
		Skipped:  len(result.Skipped),
		Expenses: httpexpense.ToResponseList(result.Imported),
	})
}

// picker builds the file source from a multipart "file" field or a JSON
// base64 body.
func (h *Handler) picker(r *http.Request) (importer.Picker, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		var req base64Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, nil, errors.New("invalid request body: " + err.Error())
		}

		if req.ContentBase64 == "" {
			return nil, nil, errors.New("content_base64 field is required")
		}

		return importer.ReaderPicker{Reader: strings.NewReader(req.ContentBase64), Base64: true}, func() {}, nil
	}

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		return nil, nil, errors.New("failed to parse form: " + err.Error())
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, errors.New("file field is required")
	}

	cleanup := func() {
		_ = r.MultipartForm.RemoveAll()
	}

	return importer.ReaderPicker{Reader: file}, cleanup, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
