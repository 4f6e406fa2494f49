package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-marketplace/internal/apierr"
	"github.com/iliyamo/book-marketplace/internal/model"
	"github.com/iliyamo/book-marketplace/internal/repository"
)

// UserHandler implements the account surface: the login upsert, the
// role lookup the client uses for UI gating, and the admin role update.
type UserHandler struct {
	Users UserStore
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users UserStore) *UserHandler {
	if users == nil {
		panic("nil user store passed to NewUserHandler")
	}
	return &UserHandler{Users: users}
}

// ----- DTOs -----

type upsertUserReq struct {
	Email string `json:"email"`
}

type roleReq struct {
	Role string `json:"role"`
}

// Upsert handles POST /user, called by the client after every login.
// A first login creates the account with the customer role; later
// logins refresh lastLoginAt only.
func (h *UserHandler) Upsert(c echo.Context) error {
	var req upsertUserReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}
	if strings.TrimSpace(req.Email) == "" {
		return respond(c, apierr.Invalid("email is required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	created, err := h.Users.Upsert(ctx, req.Email)
	if err != nil {
		return respond(c, apierr.Server("upsert user failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"upserted": created})
}

// GetRole handles GET /user/role/:email.
func (h *UserHandler) GetRole(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		return respond(c, apierr.Invalid("email is required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("user not found"))
		}
		return respond(c, apierr.Server("load user failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"role": u.Role})
}

// UpdateRole handles PATCH /users/role/:id. The route middleware has
// already authenticated the caller and verified the admin role; the
// handler validates the requested role, resolves the target and
// enforces the self-change guard before applying the update.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	id := c.Param("id")
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}
	role := strings.TrimSpace(req.Role)
	if !model.ValidRole(role) {
		return respond(c, apierr.Invalid("role must be one of customer, librarian, admin"))
	}

	caller, err := verifiedEmail(c)
	if err != nil {
		return respond(c, err)
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("user not found"))
		}
		return respond(c, apierr.Server("load user failed"))
	}
	if strings.EqualFold(target.Email, caller) {
		return respond(c, apierr.Invalid("admins cannot change their own role"))
	}

	if err := h.Users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("user not found"))
		}
		return respond(c, apierr.Server("update role failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "role updated"})
}
