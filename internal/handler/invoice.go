package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-marketplace/internal/apierr"
)

// Invoices handles GET /invoices/:email. It returns the customer's
// settled orders only, newest first; an email with no paid orders gets
// an empty list.
func (h *OrderHandler) Invoices(c echo.Context) error {
	email := strings.TrimSpace(c.Param("email"))
	if email == "" {
		return respond(c, apierr.Invalid("email is required"))
	}

	ctx, cancel := storeCtx(c)
	defer cancel()

	orders, err := h.Orders.ListPaidInvoices(ctx, email)
	if err != nil {
		return respond(c, apierr.Server("list invoices failed"))
	}
	return c.JSON(http.StatusOK, orders)
}
