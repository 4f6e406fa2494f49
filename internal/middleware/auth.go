package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-marketplace/internal/apierr"
)

// TokenVerifier is the identity-provider contract consumed by the
// bearer middleware: given a raw token it returns the verified caller
// email. The production implementation lives in internal/auth.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// BearerAuth returns a middleware that extracts the bearer credential
// from the Authorization header and verifies it. On success the
// verified email is stored in the context under "email" for downstream
// role gates and handlers; on failure the request is rejected with 401
// and the provider's error detail.
func BearerAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return fail(c, apierr.Unauthorized("missing bearer token"))
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			email, err := verifier.Verify(c.Request().Context(), raw)
			if err != nil {
				return fail(c, apierr.Unauthorized(err.Error()))
			}
			c.Set("email", email)
			return next(c)
		}
	}
}

// fail writes a middleware rejection in the same kind-tagged error
// shape the handlers produce.
func fail(c echo.Context, ae *apierr.Error) error {
	return c.JSON(ae.Status(), echo.Map{"error": ae.Message})
}
