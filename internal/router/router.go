// Package router wires the HTTP routes to their handlers and applies
// the auth and role gates on the protected ones.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-marketplace/internal/handler"
	"github.com/iliyamo/book-marketplace/internal/middleware"
	"github.com/iliyamo/book-marketplace/internal/model"
)

// Deps carries everything route registration needs.
type Deps struct {
	Orders   *handler.OrderHandler
	Payments *handler.PaymentHandler
	Users    *handler.UserHandler
	Books    *handler.BookHandler
	Wishlist *handler.WishlistHandler

	Verifier middleware.TokenVerifier
	Roles    middleware.RoleSource
}

// RegisterRoutes mounts the full route table on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	bearer := middleware.BearerAuth(d.Verifier)
	admin := middleware.RequireRole(d.Roles, model.RoleAdmin)
	staff := middleware.RequireRole(d.Roles, model.RoleLibrarian, model.RoleAdmin)

	e.GET("/healthz", handler.Health)

	// Orders.
	e.POST("/orders", d.Orders.Create)
	e.GET("/orders", d.Orders.List)
	e.GET("/my-orders/:email", d.Orders.ListByCustomer)
	e.GET("/my-books-orders/:email", d.Orders.ListBySeller)
	e.GET("/invoices/:email", d.Orders.Invoices)
	e.PATCH("/cancel-order/:id", d.Orders.Cancel)
	e.PATCH("/orders/:id", d.Orders.UpdateStatus, bearer, admin)
	e.DELETE("/orders/:id", d.Orders.Delete, bearer, admin)

	// Payments.
	e.POST("/create-checkout-session", d.Payments.CreateCheckoutSession)
	e.PATCH("/payment-success", d.Payments.PaymentSuccess)

	// Users.
	e.POST("/user", d.Users.Upsert)
	e.GET("/user/role/:email", d.Users.GetRole)
	e.PATCH("/users/role/:id", d.Users.UpdateRole, bearer, admin)

	// Books.
	e.POST("/books", d.Books.Create)
	e.GET("/books", d.Books.List)
	e.GET("/books/:id", d.Books.Get)
	e.PUT("/books/:id", d.Books.Update)
	e.PATCH("/books/status/:id", d.Books.UpdateStatus, bearer, staff)
	e.DELETE("/books/:id", d.Books.Delete, bearer, admin)

	// Wishlist.
	e.POST("/wishlist", d.Wishlist.Add)
	e.GET("/wishlist/:email", d.Wishlist.List)
	e.DELETE("/wishlist/:id", d.Wishlist.Remove)
}
