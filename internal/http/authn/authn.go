// Package authn resolves bearer tokens to the user the request acts for.
package authn

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type Authenticator interface {
	Authenticate(token string) (uuid.UUID, error)
}

type ctxKey struct{}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID returns the id stored by RequireUser.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}

// RequireUser rejects requests without a valid "Authorization: Bearer" token.
func RequireUser(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			id, err := a.Authenticate(strings.TrimSpace(token))
			if err != nil {
				slog.Debug("rejected token", "error", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

// MustUserID is for handlers mounted behind RequireUser.
func MustUserID(r *http.Request) uuid.UUID {
	id, ok := UserID(r.Context())
	if !ok {
		panic("authn: handler mounted without RequireUser")
	}

	return id
}
