package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-marketplace/internal/apierr"
	"github.com/iliyamo/book-marketplace/internal/model"
	"github.com/iliyamo/book-marketplace/internal/queue"
	"github.com/iliyamo/book-marketplace/internal/repository"
)

// OrderHandler implements the order lifecycle: creation, listing,
// admin status edits, customer cancellation and admin deletion.
type OrderHandler struct {
	Orders OrderStore
	Events EventPublisher
}

// NewOrderHandler constructs an OrderHandler. Events may be nil.
func NewOrderHandler(orders OrderStore, events EventPublisher) *OrderHandler {
	if orders == nil {
		panic("nil order store passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders, Events: events}
}

// ----- DTOs -----

type createOrderReq struct {
	BookID        string  `json:"bookId"`
	SellerEmail   string  `json:"sellerEmail"`
	CustomerEmail string  `json:"customerEmail"`
	Price         float64 `json:"price"`
}

type statusReq struct {
	Status string `json:"status"`
}

// Create handles POST /orders. New orders always start pending/unpaid;
// callers cannot pick lifecycle fields.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}
	req.BookID = strings.TrimSpace(req.BookID)
	req.SellerEmail = strings.TrimSpace(req.SellerEmail)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if req.BookID == "" || req.SellerEmail == "" || req.CustomerEmail == "" {
		return respond(c, apierr.Invalid("bookId, sellerEmail and customerEmail are required"))
	}
	if req.Price <= 0 {
		return respond(c, apierr.Invalid("price must be positive"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	order := model.Order{
		BookID:        req.BookID,
		SellerEmail:   req.SellerEmail,
		CustomerEmail: req.CustomerEmail,
		Price:         req.Price,
	}
	id, err := h.Orders.Create(ctx, &order)
	if err != nil {
		return respond(c, apierr.Server("create order failed"))
	}

	if h.Events != nil {
		_ = h.Events.OrderCreated(ctx, queue.OrderCreatedEvent{
			OrderID:       id,
			BookID:        order.BookID,
			CustomerEmail: order.CustomerEmail,
			SellerEmail:   order.SellerEmail,
			Price:         order.Price,
			CreatedAt:     order.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{"insertedId": id})
}

// List handles GET /orders and returns every order.
func (h *OrderHandler) List(c echo.Context) error {
	ctx, cancel := storeCtx(c)
	defer cancel()

	orders, err := h.Orders.List(ctx)
	if err != nil {
		return respond(c, apierr.Server("list orders failed"))
	}
	return c.JSON(http.StatusOK, orders)
}

// ListByCustomer handles GET /my-orders/:email.
func (h *OrderHandler) ListByCustomer(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		return respond(c, apierr.Invalid("email is required"))
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	orders, err := h.Orders.ListByCustomer(ctx, email)
	if err != nil {
		return respond(c, apierr.Server("list orders failed"))
	}
	return c.JSON(http.StatusOK, orders)
}

// ListBySeller handles GET /my-books-orders/:email.
func (h *OrderHandler) ListBySeller(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		return respond(c, apierr.Invalid("email is required"))
	}
	ctx, cancel := storeCtx(c)
	defer cancel()

	orders, err := h.Orders.ListBySeller(ctx, email)
	if err != nil {
		return respond(c, apierr.Server("list orders failed"))
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PATCH /orders/:id (admin only, enforced by the
// route middleware). The requested status is validated against the
// transition table; re-applying the current status is an accepted
// no-op so duplicate edits stay harmless.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}
	status := strings.TrimSpace(req.Status)
	if !model.ValidStatus(status) {
		return respond(c, apierr.Invalid("status must be one of pending, paid, cancelled"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	current, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("order not found"))
		}
		return respond(c, apierr.Server("load order failed"))
	}
	if current.Status == status {
		return c.JSON(http.StatusOK, echo.Map{"updated": false, "status": status})
	}
	if !model.CanTransition(current.Status, status) {
		return respond(c, apierr.Invalid(fmt.Sprintf("cannot move order from %s to %s", current.Status, status)))
	}

	if err := h.Orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("order not found"))
		}
		return respond(c, apierr.Server("update order failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true, "status": status})
}

// Cancel handles PATCH /cancel-order/:id, the customer-initiated soft
// cancellation. Only pending orders can be cancelled; cancelling an
// already-cancelled order is a no-op ack.
func (h *OrderHandler) Cancel(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := storeCtx(c)
	defer cancel()

	current, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("order not found"))
		}
		return respond(c, apierr.Server("load order failed"))
	}
	if current.Status == model.StatusCancelled {
		return c.JSON(http.StatusOK, echo.Map{"updated": false, "status": model.StatusCancelled})
	}
	if !model.CanTransition(current.Status, model.StatusCancelled) {
		return respond(c, apierr.Invalid("a paid order cannot be cancelled"))
	}

	if err := h.Orders.UpdateStatus(ctx, id, model.StatusCancelled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("order not found"))
		}
		return respond(c, apierr.Server("cancel order failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": true, "status": model.StatusCancelled})
}

// Delete handles DELETE /orders/:id (admin only).
func (h *OrderHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	ctx, cancel := storeCtx(c)
	defer cancel()

	if err := h.Orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respond(c, apierr.Missing("order not found"))
		}
		return respond(c, apierr.Server("delete order failed"))
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
