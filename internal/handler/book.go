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

// BookHandler implements the catalog surface. Reads and writes are
// pass-through; the delete endpoint cascades into the order store
// inside one transaction.
type BookHandler struct {
	Books BookStore
}

// NewBookHandler constructs a BookHandler.
func NewBookHandler(books BookStore) *BookHandler {
	if books == nil {
		panic("nil book store passed to NewBookHandler")
	}
	return &BookHandler{Books: books}
}

type bookReq struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	SellerEmail string  `json:"sellerEmail"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

// Create handles POST /books.
func (h *BookHandler) Create(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}
	req.Title = strings.TrimSpace(req.Title)
	req.SellerEmail = strings.TrimSpace(req.SellerEmail)
	if req.Title == "" || req.SellerEmail == "" {
		return respond(c, apierr.Invalid("title and sellerEmail are required"))
	}
	if req.Price <= 0 {
		return respond(c, apierr.Invalid("price must be positive"))
	}
	if req.Status == "" {
		req.Status = "available"
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	book := model.Book{
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		Status:      req.Status,
		SellerEmail: req.SellerEmail,
		Image:       req.Image,
		Description: req.Description,
	}
	id, err := h.Books.Create(ctx, &book)
	if err != nil {
		return respond(c, apierr.Server("create book failed"))
	}
	return c.JSON(http.StatusCreated, echo.Map{"insertedId": id})
}

// List handles GET /books.
func (h *BookHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	books, err := h.Books.List(ctx)
	if err != nil {
		return respond(c, apierr.Server("list books failed"))
	}
	return c.JSON(http.StatusOK, books)
}

// Get handles GET /books/:id.
func (h *BookHandler) Get(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	book, err := h.Books.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("book not found"))
		}
		return respond(c, apierr.Server("load book failed"))
	}
	return c.JSON(http.StatusOK, book)
}

// Update handles PUT /books/:id and overwrites the editable fields.
func (h *BookHandler) Update(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	book := model.Book{
		Title:       strings.TrimSpace(req.Title),
		Author:      req.Author,
		Price:       req.Price,
		Status:      req.Status,
		Image:       req.Image,
		Description: req.Description,
	}
	if err := h.Books.Update(ctx, c.Param("id"), book); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("book not found"))
		}
		return respond(c, apierr.Server("update book failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// UpdateStatus handles PATCH /books/status/:id (librarian or admin,
// enforced by the route middleware).
func (h *BookHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return respond(c, apierr.Invalid("status is required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Books.UpdateStatus(ctx, c.Param("id"), status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("book not found"))
		}
		return respond(c, apierr.Server("update book failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "book status updated"})
}

// Delete handles DELETE /books/:id (admin only). The book and every
// order referencing it are removed together.
func (h *BookHandler) Delete(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	removed, err := h.Books.DeleteCascade(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("book not found"))
		}
		return respond(c, apierr.Server("delete book failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "book and related orders deleted",
		"ordersRemoved": removed,
	})
}
