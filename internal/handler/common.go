// Package handler defines the HTTP handlers of the marketplace API.
// Handlers depend on small store interfaces rather than concrete
// repositories so tests can substitute fakes; the repository package
// implements every interface below.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-marketplace/internal/apierr"
	"github.com/iliyamo/book-marketplace/internal/model"
	"github.com/iliyamo/book-marketplace/internal/queue"
)

// storeTimeout bounds every store call issued from a handler.
const storeTimeout = 5 * time.Second

// OrderStore is the persistence contract for orders.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) (string, error)
	List(ctx context.Context) ([]model.Order, error)
	ListByCustomer(ctx context.Context, email string) ([]model.Order, error)
	ListBySeller(ctx context.Context, email string) ([]model.Order, error)
	ListPaidInvoices(ctx context.Context, email string) ([]model.Order, error)
	GetByID(ctx context.Context, id string) (model.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	MarkPaid(ctx context.Context, id, transactionID string, paidAt time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

// UserStore is the persistence contract for accounts.
type UserStore interface {
	Upsert(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	UpdateRole(ctx context.Context, id, role string) error
}

// BookStore is the persistence contract for listings.
type BookStore interface {
	Create(ctx context.Context, b *model.Book) (string, error)
	List(ctx context.Context) ([]model.Book, error)
	GetByID(ctx context.Context, id string) (model.Book, error)
	Update(ctx context.Context, id string, b model.Book) error
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteCascade(ctx context.Context, id string) (int64, error)
}

// WishlistStore is the persistence contract for wishlist entries.
type WishlistStore interface {
	Add(ctx context.Context, item *model.WishlistItem) (string, error)
	ListByUser(ctx context.Context, email string) ([]model.WishlistItem, error)
	Remove(ctx context.Context, id string) error
}

// EventPublisher emits domain events after successful mutations. A nil
// publisher disables events; publish errors are never surfaced to
// clients.
type EventPublisher interface {
	OrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error
	OrderPaid(ctx context.Context, ev queue.OrderPaidEvent) error
}

// respond translates a failure into its transport shape and writes it
// to the diagnostic log. Unknown errors become 500s with their message
// passed through.
func respond(c echo.Context, err error) error {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		ae = apierr.Server(err.Error())
	}
	c.Logger().Errorf("%s %s: %s", c.Request().Method, c.Path(), ae.Message)
	return c.JSON(ae.Status(), echo.Map{"error": ae.Message})
}

// verifiedEmail returns the caller email stored by the bearer
// middleware.
func verifiedEmail(c echo.Context) (string, error) {
	v, ok := c.Get("email").(string)
	if !ok || v == "" {
		return "", apierr.Unauthorized("unauthorized")
	}
	return v, nil
}

// storeCtx derives the bounded context used for store and gateway calls.
func storeCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}
