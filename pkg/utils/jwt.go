package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token has expired")
)

// OperatorClaims are the claims this service reads from the backend-issued
// access token. The backend owns the token; this service only forwards it.
type OperatorClaims struct {
	UserID  any    `json:"user_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Company any    `json:"company,omitempty"`
	jwt.RegisteredClaims
}

// OperatorID returns user_id when present, otherwise the subject
func (c *OperatorClaims) OperatorID() string {
	switch v := c.UserID.(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return c.Subject
}

// TokenInspector reads operator tokens. With a secret it verifies HS256
// signatures; without one it only decodes the payload and checks expiry,
// leaving verification to the backend.
type TokenInspector struct {
	secretKey []byte
	now       func() time.Time
}

// NewTokenInspector creates an inspector. An empty secret disables signature
// verification.
func NewTokenInspector(secret string) *TokenInspector {
	ti := &TokenInspector{now: time.Now}
	if secret != "" {
		ti.secretKey = []byte(secret)
	}
	return ti
}

// Verifies reports whether signatures are checked
func (m *TokenInspector) Verifies() bool {
	return len(m.secretKey) > 0
}

// Inspect parses the token and returns its claims. Opaque (non-JWT) tokens
// yield ErrMalformedToken when verification is off; callers may still
// forward them.
func (m *TokenInspector) Inspect(tokenString string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}

	if m.Verifies() {
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.secretKey, nil
		}, jwt.WithTimeFunc(m.now))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrExpiredToken
			}
			return nil, err
		}
		if !token.Valid {
			return nil, errors.New("invalid token")
		}
		return claims, nil
	}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrMalformedToken
	}
	if claims.ExpiresAt != nil && !m.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}
