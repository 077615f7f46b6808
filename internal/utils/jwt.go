package utils

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of the WordPress JWT this service cares about.
type TokenClaims struct {
	UserID    int
	ExpiresAt time.Time
}

// wpClaims mirrors the claim layout of the WordPress JWT plugin:
// {"iss", "iat", "nbf", "exp", "data": {"user": {"id": "1"}}}.
type wpClaims struct {
	jwt.RegisteredClaims
	Data struct {
		User struct {
			ID flexID `json:"id"`
		} `json:"user"`
	} `json:"data"`
}

// flexID tolerates both encodings the plugin has shipped: "1" and 1.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// InspectToken parses a WordPress-issued JWT without verifying its signature
// (the signing secret lives on the WordPress side) and rejects expired tokens.
// Signature authority stays with the store: every upstream call carries the
// token and WordPress re-verifies it. This inspection only avoids forwarding
// tokens that are provably dead.
func InspectToken(token string) (*TokenClaims, error) {
	var claims wpClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
		if time.Now().After(out.ExpiresAt) {
			return nil, ErrInvalidToken
		}
	}
	if id, err := strconv.Atoi(string(claims.Data.User.ID)); err == nil {
		out.UserID = id
	}
	return out, nil
}
