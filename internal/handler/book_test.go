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

func TestBookCreate(t *testing.T) {
	t.Run("defaults status to available", func(t *testing.T) {
		var stored model.Book
		store := &mockBookStore{
			CreateFunc: func(_ context.Context, b *model.Book) (string, error) {
				stored = *b
				return "bk1", nil
			},
		}
		h := NewBookHandler(store)
		c, rec := newTestCtx(http.MethodPost, "/books",
			`{"title":"Dune","author":"Herbert","price":19.99,"sellerEmail":"s@x.io"}`)
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "bk1", decodeBody(t, rec)["insertedId"])
		assert.Equal(t, "available", stored.Status)
	})

	t.Run("requires title, seller and positive price", func(t *testing.T) {
		h := NewBookHandler(&mockBookStore{})
		for _, body := range []string{
			`{"sellerEmail":"s@x.io","price":5}`,
			`{"title":"Dune","price":5}`,
			`{"title":"Dune","sellerEmail":"s@x.io","price":0}`,
		} {
			c, rec := newTestCtx(http.MethodPost, "/books", body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		}
	})
}

func TestBookGet(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		store := &mockBookStore{
			GetByIDFunc: func(_ context.Context, _ string) (model.Book, error) {
				return model.Book{}, repository.ErrNotFound
			},
		}
		h := NewBookHandler(store)
		c, rec := newTestCtx(http.MethodGet, "/books/x", "")
		c.SetParamNames("id")
		c.SetParamValues("x")
		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookUpdateStatus(t *testing.T) {
	t.Run("updates", func(t *testing.T) {
		var gotStatus string
		store := &mockBookStore{
			UpdateStatusFunc: func(_ context.Context, _, status string) error {
				gotStatus = status
				return nil
			},
		}
		h := NewBookHandler(store)
		c, rec := newTestCtx(http.MethodPatch, "/books/status/bk1", `{"status":"sold"}`)
		c.SetParamNames("id")
		c.SetParamValues("bk1")
		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "sold", gotStatus)
	})

	t.Run("empty status rejected", func(t *testing.T) {
		h := NewBookHandler(&mockBookStore{})
		c, rec := newTestCtx(http.MethodPatch, "/books/status/bk1", `{"status":" "}`)
		c.SetParamNames("id")
		c.SetParamValues("bk1")
		require.NoError(t, h.UpdateStatus(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookDelete(t *testing.T) {
	t.Run("cascade reports removed orders", func(t *testing.T) {
		store := &mockBookStore{
			DeleteCascadeFunc: func(_ context.Context, id string) (int64, error) {
				assert.Equal(t, "bk1", id)
				return 3, nil
			},
		}
		h := NewBookHandler(store)
		c, rec := newTestCtx(http.MethodDelete, "/books/bk1", "")
		c.SetParamNames("id")
		c.SetParamValues("bk1")
		require.NoError(t, h.Delete(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(3), body["ordersRemoved"])
	})

	t.Run("unknown book", func(t *testing.T) {
		store := &mockBookStore{
			DeleteCascadeFunc: func(_ context.Context, _ string) (int64, error) {
				return 0, repository.ErrNotFound
			},
		}
		h := NewBookHandler(store)
		c, rec := newTestCtx(http.MethodDelete, "/books/x", "")
		c.SetParamNames("id")
		c.SetParamValues("x")
		require.NoError(t, h.Delete(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
