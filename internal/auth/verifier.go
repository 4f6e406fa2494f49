// Package auth verifies the bearer credentials issued by the identity
// provider. The service never mints tokens itself; it only checks
// signatures and extracts the caller's email, which is the identity the
// rest of the system keys on.
package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier validates HS256 tokens signed with the identity
// provider's shared secret. The verified email comes from the "email"
// claim, falling back to "sub" for providers that put the address there.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier returns a verifier for the given signing secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates a raw bearer token and returns the
// caller's email. The error detail is surfaced to the client in the
// 401 body, matching the provider's own messages.
func (v *JWTVerifier) Verify(_ context.Context, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tok.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	return "", errors.New("token carries no email identity")
}
