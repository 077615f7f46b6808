package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss": "https://store.example",
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
		"data": map[string]any{
			"user": map[string]any{"id": userID},
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wordpress-side-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectToken(t *testing.T) {
	claims, err := InspectToken(signedToken(t, "7", time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 2*time.Second)
}

func TestInspectTokenNumericID(t *testing.T) {
	// Some plugin versions emit the id as a number instead of a string.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp":  time.Now().Add(time.Hour).Unix(),
		"data": map[string]any{"user": map[string]any{"id": 42}},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := InspectToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
}

func TestInspectTokenExpired(t *testing.T) {
	_, err := InspectToken(signedToken(t, "7", time.Now().Add(-time.Minute)))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestInspectTokenGarbage(t *testing.T) {
	_, err := InspectToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = InspectToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
