package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-marketplace/internal/apierr"
	"github.com/iliyamo/book-marketplace/internal/model"
	"github.com/iliyamo/book-marketplace/internal/repository"
)

// RoleSource resolves the persisted role for a verified email. The
// user store implements it; tests substitute fakes.
type RoleSource interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// RequireRole returns a middleware that loads the caller's user record
// and enforces that its persisted role is one of the allowed set. The
// role comes from the store, not the token, so a revoked admin loses
// access as soon as the record changes. It assumes BearerAuth has
// stored the verified email in the context. An absent user record is
// treated as forbidden.
func RequireRole(users RoleSource, roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, ok := c.Get("email").(string)
			if !ok || email == "" {
				return fail(c, apierr.Unauthorized("unauthorized"))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByEmail(ctx, email)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fail(c, apierr.Forbid("forbidden"))
				}
				c.Logger().Errorf("role lookup failed for %s: %v", email, err)
				return fail(c, apierr.Server("role lookup failed"))
			}
			if !allowed[u.Role] {
				return fail(c, apierr.Forbid("forbidden"))
			}
			c.Set("role", u.Role)
			return next(c)
		}
	}
}
