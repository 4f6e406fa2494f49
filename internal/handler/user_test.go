package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-marketplace/internal/model"
	"github.com/iliyamo/book-marketplace/internal/repository"
)

func TestUserUpsert(t *testing.T) {
	t.Run("first login creates", func(t *testing.T) {
		store := &mockUserStore{
			UpsertFunc: func(_ context.Context, email string) (bool, error) {
				assert.Equal(t, "new@x.io", email)
				return true, nil
			},
		}
		h := NewUserHandler(store)
		c, rec := newTestCtx(http.MethodPost, "/user", `{"email":"new@x.io"}`)
		require.NoError(t, h.Upsert(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["upserted"])
	})

	t.Run("repeat login refreshes only", func(t *testing.T) {
		store := &mockUserStore{
			UpsertFunc: func(_ context.Context, _ string) (bool, error) { return false, nil },
		}
		h := NewUserHandler(store)
		c, rec := newTestCtx(http.MethodPost, "/user", `{"email":"old@x.io"}`)
		require.NoError(t, h.Upsert(c))
		assert.Equal(t, false, decodeBody(t, rec)["upserted"])
	})

	t.Run("missing email", func(t *testing.T) {
		h := NewUserHandler(&mockUserStore{})
		c, rec := newTestCtx(http.MethodPost, "/user", `{}`)
		require.NoError(t, h.Upsert(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserGetRole(t *testing.T) {
	t.Run("known user", func(t *testing.T) {
		store := &mockUserStore{
			GetByEmailFunc: func(_ context.Context, _ string) (model.User, error) {
				return model.User{Email: "a@x.io", Role: model.RoleLibrarian}, nil
			},
		}
		h := NewUserHandler(store)
		c, rec := newTestCtx(http.MethodGet, "/user/role/a@x.io", "")
		c.SetParamNames("email")
		c.SetParamValues("a@x.io")
		require.NoError(t, h.GetRole(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.RoleLibrarian, decodeBody(t, rec)["role"])
	})

	t.Run("unknown user", func(t *testing.T) {
		store := &mockUserStore{
			GetByEmailFunc: func(_ context.Context, _ string) (model.User, error) {
				return model.User{}, repository.ErrNotFound
			},
		}
		h := NewUserHandler(store)
		c, rec := newTestCtx(http.MethodGet, "/user/role/x@x.io", "")
		c.SetParamNames("email")
		c.SetParamValues("x@x.io")
		require.NoError(t, h.GetRole(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserUpdateRole(t *testing.T) {
	target := model.User{Email: "target@x.io", Role: model.RoleCustomer}

	newStore := func() *mockUserStore {
		return &mockUserStore{
			GetByIDFunc: func(_ context.Context, _ string) (model.User, error) {
				return target, nil
			},
			UpdateRoleFunc: func(_ context.Context, _, _ string) error { return nil },
		}
	}

	run := func(store *mockUserStore, caller, body string) (int, map[string]interface{}) {
		h := NewUserHandler(store)
		c, rec := newTestCtx(http.MethodPatch, "/users/role/u2", body)
		c.SetParamNames("id")
		c.SetParamValues("u2")
		if caller != "" {
			c.Set("email", caller)
		}
		require.NoError(t, h.UpdateRole(c))
		return rec.Code, decodeBody(t, rec)
	}

	t.Run("admin promotes another user", func(t *testing.T) {
		var gotID, gotRole string
		store := newStore()
		store.UpdateRoleFunc = func(_ context.Context, id, role string) error {
			gotID, gotRole = id, role
			return nil
		}
		code, body := run(store, "admin@x.io", `{"role":"librarian"}`)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "role updated", body["message"])
		assert.Equal(t, "u2", gotID)
		assert.Equal(t, model.RoleLibrarian, gotRole)
	})

	t.Run("invalid role", func(t *testing.T) {
		code, body := run(newStore(), "admin@x.io", `{"role":"owner"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body["error"], "role must be one of")
	})

	t.Run("self change rejected", func(t *testing.T) {
		code, body := run(newStore(), "Target@X.io", `{"role":"admin"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "admins cannot change their own role", body["error"])
	})

	t.Run("unknown target", func(t *testing.T) {
		store := newStore()
		store.GetByIDFunc = func(_ context.Context, _ string) (model.User, error) {
			return model.User{}, repository.ErrNotFound
		}
		code, _ := run(store, "admin@x.io", `{"role":"librarian"}`)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("missing caller identity", func(t *testing.T) {
		code, _ := run(newStore(), "", `{"role":"librarian"}`)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}
