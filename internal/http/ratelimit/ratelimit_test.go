package ratelimit_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/http/ratelimit"
)

func TestLimiter_Middleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	h := ratelimit.New(0.001, 2).Middleware(ok)

	do := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = remoteAddr

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"))

	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1000"))
	assert.Equal(t, http.StatusNoContent, do("no-port"))
}

func TestLimiter_IgnoresForwardingHeaders(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	h := ratelimit.Peer(middleware.RealIP(ratelimit.New(1, 1).Middleware(ok)))

	codes := make(map[int]int)

	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[rec.Code]++
	}

	assert.Equal(t, 1, codes[http.StatusNoContent])
	assert.Equal(t, 49, codes[http.StatusTooManyRequests])
}

func TestLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	l := ratelimit.New(1, 1)
	l.SetClock(func() time.Time { return now })

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remoteAddr string) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	do("10.0.0.1:1")
	do("10.0.0.2:1")
	assert.Equal(t, 2, l.Clients())

	// Idle, but the last sweep is too recent to run another.
	now = now.Add(30 * time.Second)
	do("10.0.0.3:1")
	assert.Equal(t, 3, l.Clients())

	now = now.Add(11 * time.Minute)
	do("10.0.0.3:1")
	assert.Equal(t, 1, l.Clients())
}
