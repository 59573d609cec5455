package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"menucli/internal/model"
)

// TokenTTL matches the credential lifetime of the hosted client (7 days).
const TokenTTL = 7 * 24 * time.Hour

// tokenSecret signs the locally held snapshot token. The token is opaque
// client state, not a proof of identity: the server never sees it, and the
// authoritative check is always GET /auth/me.
var tokenSecret = []byte("menucli-local-session")

type userClaims struct {
	User *model.User `json:"user"`
	jwt.RegisteredClaims
}

// EncodeUser wraps the user snapshot in a signed token with a 7-day expiry.
func EncodeUser(u *model.User, now time.Time) (string, error) {
	if u == nil {
		return "", errors.New("nil user")
	}
	claims := userClaims{
		User: u,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokenSecret)
}

// DecodeUser structurally validates the token and returns the embedded user
// snapshot. Expired or malformed tokens fail; semantic validity is the
// server's call.
func DecodeUser(token string) (*model.User, error) {
	var claims userClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tokenSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.User == nil {
		return nil, errors.New("token has no user snapshot")
	}
	return claims.User, nil
}
