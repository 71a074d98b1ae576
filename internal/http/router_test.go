package http_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/export"
	apphttp "github.com/MrJamesThe3rd/tally/internal/http"
	"github.com/MrJamesThe3rd/tally/internal/http/account"
	httpexpense "github.com/MrJamesThe3rd/tally/internal/http/expense"
	httpexport "github.com/MrJamesThe3rd/tally/internal/http/export"
	"github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	httpmatching "github.com/MrJamesThe3rd/tally/internal/http/matching"
	httpstats "github.com/MrJamesThe3rd/tally/internal/http/stats"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/matching"
)

const bankExport = "Data valor;Débito;Categoria;Descrição\n15-03-2024;25,50;Food;Lunch\n16-03-2024;4,20;;UBER TRIP\nSaldo final;1.000,00"

type fixture struct {
	handler  http.Handler
	expenses *expense.MockRepository
	users    *auth.MockRepository
	rules    *matching.MockRepository
	userID   uuid.UUID
	token    string
}

func newFixture(t *testing.T, opts apphttp.Options) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		expenses: expense.NewMockRepository(ctrl),
		users:    auth.NewMockRepository(ctrl),
		rules:    matching.NewMockRepository(ctrl),
		userID:   uuid.New(),
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour, "tally")
	authSvc := auth.NewService(f.users, tokens)
	expenseSvc := expense.NewService(f.expenses, 2)
	matchSvc := matching.NewService(f.rules)

	f.handler = apphttp.New(
		opts,
		authSvc,
		account.NewHandler(authSvc),
		httpexpense.NewHandler(expenseSvc),
		importcsv.NewHandler(importer.NewService(), expenseSvc, matchSvc, 1<<20),
		httpstats.NewHandler(expenseSvc),
		httpmatching.NewHandler(matchSvc),
		httpexport.NewHandler(export.NewService(expenseSvc)),
	)

	token, _, err := tokens.Issue(f.userID)
	require.NoError(t, err)

	f.token = token

	return f
}

func defaultOptions() apphttp.Options {
	return apphttp.Options{AllowedOrigins: []string{"*"}, AuthRateLimit: 100, AuthRateBurst: 100}
}

func (f *fixture) do(t *testing.T, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	req.Header.Set("Authorization", "Bearer "+f.token)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	return rec
}

func multipartFile(t *testing.T, content string) (string, io.Reader) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return mw.FormDataContentType(), &buf
}

func storeWithIDs(_ context.Context, e *expense.Expense) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()

	return nil
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t, defaultOptions())

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tally_http_requests_total")
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newFixture(t, defaultOptions())

	for _, path := range []string{"/api/v1/expenses", "/api/v1/stats/period", "/api/v1/export", "/api/v1/matching/suggest?description=x"} {
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRouter_Import(t *testing.T) {
	t.Run("MultipartBankExport", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		f.rules.EXPECT().FindCategory(gomock.Any(), f.userID, "UBER TRIP").Return("Transport", nil)
		f.expenses.EXPECT().ListExpenses(gomock.Any(), f.userID, expense.ListFilter{}).Return(nil, nil)

		var stored []expense.Record

		f.expenses.EXPECT().
			CreateExpense(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *expense.Expense) error {
				return storeWithIDs(ctx, e)
			}).
			Times(2)

		contentType, body := multipartFile(t, bankExport)
		rec := f.do(t, http.MethodPost, "/api/v1/import", contentType, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Imported int                    `json:"imported"`
			Skipped  int                    `json:"skipped"`
			Expenses []httpexpense.Response `json:"expenses"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

		assert.Equal(t, 2, resp.Imported)
		assert.Equal(t, 0, resp.Skipped)

		for _, e := range resp.Expenses {
			stored = append(stored, expense.Record{Amount: e.Amount, Category: e.Category, Description: e.Description, Date: e.Date})
		}

		assert.Equal(t, []expense.Record{
			{Amount: "25.50", Category: "Food", Description: "Lunch", Date: "2024-03-15"},
			{Amount: "4.20", Category: "Transport", Description: "UBER TRIP", Date: "2024-03-16"},
		}, stored)
	})

	t.Run("Base64AllDuplicates", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		f.rules.EXPECT().FindCategory(gomock.Any(), f.userID, gomock.Any()).Return("", nil)
		f.expenses.EXPECT().ListExpenses(gomock.Any(), f.userID, expense.ListFilter{}).Return([]*expense.Expense{
			{ID: uuid.New(), Amount: "25.50", Category: "Food", Description: "Lunch", Date: "2024-03-15"},
			{ID: uuid.New(), Amount: "4.20", Category: "", Description: "UBER TRIP", Date: "2024-03-16"},
		}, nil)

		payload, err := json.Marshal(map[string]string{
			"content_base64": base64.StdEncoding.EncodeToString([]byte(bankExport)),
		})
		require.NoError(t, err)

		rec := f.do(t, http.MethodPost, "/api/v1/import", "application/json", bytes.NewReader(payload))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"imported":0,"skipped":2,"expenses":[]}`, rec.Body.String())
	})

	t.Run("UndecodableFile", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		rec := f.do(t, http.MethodPost, "/api/v1/import", "application/json", strings.NewReader(`{"content_base64":"%%%"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "File Error: Error selecting file")
	})

	t.Run("MissingFile", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		var buf bytes.Buffer

		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("other", "x"))
		require.NoError(t, mw.Close())

		rec := f.do(t, http.MethodPost, "/api/v1/import", mw.FormDataContentType(), &buf)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "file field is required")
	})

	t.Run("EmptyFile", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		contentType, body := multipartFile(t, "  \n")
		rec := f.do(t, http.MethodPost, "/api/v1/import", contentType, body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"imported":0,"skipped":0,"expenses":[]}`, rec.Body.String())
	})
}

func TestRouter_Expenses(t *testing.T) {
	t.Run("CreateValidated", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		rec := f.do(t, http.MethodPost, "/api/v1/expenses", "application/json",
			strings.NewReader(`{"amount":"0","category":"Food","description":"Lunch","date":"2024-03-15"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "valid amount")
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		f.expenses.EXPECT().ListExpenses(gomock.Any(), f.userID, expense.ListFilter{Period: "2024-03"}).Return([]*expense.Expense{
			{Description: "Lunch", Date: "2024-03-15"},
		}, nil)

		rec := f.do(t, http.MethodPost, "/api/v1/expenses", "application/json",
			strings.NewReader(`{"amount":"10","category":"Food","description":"Lunch","date":"2024-03-15"}`))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Create", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		f.expenses.EXPECT().ListExpenses(gomock.Any(), f.userID, gomock.Any()).Return(nil, nil)
		f.expenses.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).DoAndReturn(storeWithIDs)

		rec := f.do(t, http.MethodPost, "/api/v1/expenses", "application/json",
			strings.NewReader(`{"amount":"10","description":"Lunch","date":"2024-03-15"}`))
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp httpexpense.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Others", resp.Category)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		f := newFixture(t, defaultOptions())
		id := uuid.New()

		f.expenses.EXPECT().GetExpense(gomock.Any(), f.userID, id).Return(nil, expense.ErrNotFound)

		rec := f.do(t, http.MethodGet, "/api/v1/expenses/"+id.String(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		rec := f.do(t, http.MethodDelete, "/api/v1/expenses/nope", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ListByPeriod", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		f.expenses.EXPECT().ListExpenses(gomock.Any(), f.userID, expense.ListFilter{Period: "2024-03"}).Return([]*expense.Expense{
			{ID: uuid.New(), Amount: "1", Date: "2024-03-01"},
		}, nil)

		rec := f.do(t, http.MethodGet, "/api/v1/expenses?period=2024-03", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []httpexpense.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp, 1)
	})

	t.Run("Clear", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		f.expenses.EXPECT().DeleteAllExpenses(gomock.Any(), f.userID).Return(nil)

		rec := f.do(t, http.MethodDelete, "/api/v1/expenses", "", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRouter_Stats(t *testing.T) {
	records := []*expense.Expense{
		{Amount: "10", Category: "Food", Date: "2024-03-01"},
		{Amount: "5", Category: "Food", Date: "2024-03-02"},
		{Amount: "3", Category: "Transport", Date: "2024-03-02"},
		{Amount: "7", Category: "Food", Date: "2024-04-01"},
	}

	f := newFixture(t, defaultOptions())
	f.expenses.EXPECT().ListExpenses(gomock.Any(), f.userID, expense.ListFilter{}).Return(records, nil).Times(2)

	rec := f.do(t, http.MethodGet, "/api/v1/stats/period?period=2024-03", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"period":"2024-03","totals":[{"period":"2024-03-01","total":10},{"period":"2024-03-02","total":8}]}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/stats/category?period=2024-03", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"period":"2024-03","totals":[{"category":"Food","total":15},{"category":"Transport","total":3}]}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/v1/stats/category?period=March", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Export(t *testing.T) {
	f := newFixture(t, defaultOptions())

	f.expenses.EXPECT().ListExpenses(gomock.Any(), f.userID, expense.ListFilter{Period: "2024-03"}).Return([]*expense.Expense{
		{Amount: "25.50", Category: "Food", Description: "Lunch", Date: "2024-03-15"},
	}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/export?period=2024-03", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "tally-2024-03.csv")
	assert.Equal(t, "amount,category,description,date\n\"25,50\",Food,Lunch,2024-03-15\n", rec.Body.String())
}

func TestRouter_Matching(t *testing.T) {
	f := newFixture(t, defaultOptions())

	f.rules.EXPECT().CreateRule(gomock.Any(), f.userID, "UBER", "Transport").Return(nil)
	f.rules.EXPECT().FindCategory(gomock.Any(), f.userID, "UBER TRIP").Return("Transport", nil)

	rec := f.do(t, http.MethodPost, "/api/v1/matching", "application/json", strings.NewReader(`{"pattern":"UBER","category":"Transport"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/matching", "application/json", strings.NewReader(`{"pattern":"","category":"Transport"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/matching/suggest?description=UBER+TRIP", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"description":"UBER TRIP","category":"Transport"}`, rec.Body.String())
}

func TestRouter_Auth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("LoginAndUseToken", func(t *testing.T) {
		f := newFixture(t, defaultOptions())
		user := &auth.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: string(hash)}

		f.users.EXPECT().GetUserByEmail(gomock.Any(), "ana@example.com").Return(user, nil)
		f.expenses.EXPECT().ListExpenses(gomock.Any(), user.ID, expense.ListFilter{}).Return(nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var session struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))

		f.token = session.Token
		rec = f.do(t, http.MethodGet, "/api/v1/expenses", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RegisterTaken", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(auth.ErrEmailTaken)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"ana@example.com","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("ChangePasswordNeedsToken", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ChangePasswordWrongCurrent", func(t *testing.T) {
		f := newFixture(t, defaultOptions())

		f.users.EXPECT().GetUser(gomock.Any(), f.userID).Return(&auth.User{ID: f.userID, PasswordHash: string(hash)}, nil)

		rec := f.do(t, http.MethodPost, "/api/v1/auth/password", "application/json",
			strings.NewReader(`{"current_password":"wrong","new_password":"secret2"}`))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("RateLimited", func(t *testing.T) {
		f := newFixture(t, apphttp.Options{AllowedOrigins: []string{"*"}, AuthRateLimit: 0.001, AuthRateBurst: 1})

		f.users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, auth.ErrNotFound)

		codes := make([]int, 2)

		for i := range codes {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"x@example.com","password":"nope"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))

			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, req)
			codes[i] = rec.Code
		}

		assert.Equal(t, []int{http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
	})
}
