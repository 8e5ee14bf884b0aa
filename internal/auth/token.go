package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenExpiry = 24 * time.Hour

// ErrInvalidToken signals an expired, malformed, or forged API token.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenIssuer mints and verifies the HMAC-signed bearer tokens used by the
// REST API and the CLI.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates a token issuer with the given HMAC secret.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Claims are the payload carried by an API token.
type Claims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	ID    int64  `json:"pid"`
	jwt.RegisteredClaims
}

// Issue creates a signed token for the resolved identity.
func (t *TokenIssuer) Issue(rec *SessionRecord) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: rec.Email,
		Role:  rec.Role,
		ID:    rec.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !ValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
