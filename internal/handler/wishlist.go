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

// WishlistHandler implements the wishlist surface.
type WishlistHandler struct {
	Wishlist WishlistStore
}

// NewWishlistHandler constructs a WishlistHandler.
func NewWishlistHandler(wishlist WishlistStore) *WishlistHandler {
	if wishlist == nil {
		panic("nil wishlist store passed to NewWishlistHandler")
	}
	return &WishlistHandler{Wishlist: wishlist}
}

type wishlistReq struct {
	UserEmail string `json:"userEmail"`
	BookID    string `json:"bookId"`
	Title     string `json:"title"`
}

// Add handles POST /wishlist.
func (h *WishlistHandler) Add(c echo.Context) error {
	var req wishlistReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	req.BookID = strings.TrimSpace(req.BookID)
	if req.UserEmail == "" || req.BookID == "" {
		return respond(c, apierr.Invalid("userEmail and bookId are required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	item := model.WishlistItem{
		UserEmail: req.UserEmail,
		BookID:    req.BookID,
		Title:     req.Title,
	}
	id, err := h.Wishlist.Add(ctx, &item)
	if err != nil {
		return respond(c, apierr.Server("add wishlist entry failed"))
	}
	return c.JSON(http.StatusCreated, echo.Map{"insertedId": id})
}

// List handles GET /wishlist/:email.
func (h *WishlistHandler) List(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		return respond(c, apierr.Invalid("email is required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	items, err := h.Wishlist.ListByUser(ctx, email)
	if err != nil {
		return respond(c, apierr.Server("list wishlist failed"))
	}
	return c.JSON(http.StatusOK, items)
}

// Remove handles DELETE /wishlist/:id.
func (h *WishlistHandler) Remove(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Wishlist.Remove(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("wishlist entry not found"))
		}
		return respond(c, apierr.Server("remove wishlist entry failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
