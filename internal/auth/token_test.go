package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/auth"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := auth.NewTokenManager("secret", time.Hour, "tally")
	id := uuid.New()

	token, expiresAt, err := m.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := auth.NewTokenManager("secret", time.Hour, "tally")
	id := uuid.New()

	otherSecret, _, err := auth.NewTokenManager("other", time.Hour, "tally").Issue(id)
	require.NoError(t, err)

	otherIssuer, _, err := auth.NewTokenManager("secret", time.Hour, "someone-else").Issue(id)
	require.NoError(t, err)

	expired, _, err := auth.NewTokenManager("secret", -time.Minute, "tally").Issue(id)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   id.String(),
		Issuer:    "tally",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Issuer:    "tally",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"Garbage":     "not.a.token",
		"OtherSecret": otherSecret,
		"OtherIssuer": otherIssuer,
		"Expired":     expired,
		"AlgNone":     none,
		"BadSubject":  badSubject,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
