// Package clienttest provides in-process fakes of the auth and nutrition
// services for tests. Both fakes are chi routers behind httptest servers and
// speak the same JSON shapes as the real services.
package clienttest

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Secret signs every token minted by the fakes.
var Secret = []byte("clienttest-secret")

// AccessTokenTTL is the lifetime of minted access tokens.
const AccessTokenTTL = 24 * time.Hour

type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// MintToken returns an HS256 token for userID/email expiring after ttl.
func MintToken(userID int64, email string, ttl time.Duration) string {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Secret)
	if err != nil {
		panic(err)
	}
	return s
}

// ParseToken verifies signature and expiry.
func ParseToken(token string) (*Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func bearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimPrefix(header, prefix), nil
}
