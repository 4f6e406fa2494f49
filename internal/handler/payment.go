package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-marketplace/internal/apierr"
	"github.com/iliyamo/book-marketplace/internal/payment"
	"github.com/iliyamo/book-marketplace/internal/queue"
	"github.com/iliyamo/book-marketplace/internal/repository"
)

// PaymentHandler bridges orders to the payment gateway: it opens
// checkout sessions and reconciles their settlement outcome back into
// the order store.
type PaymentHandler struct {
	Orders  OrderStore
	Gateway payment.Gateway
	Events  EventPublisher
}

// NewPaymentHandler constructs a PaymentHandler. Events may be nil.
func NewPaymentHandler(orders OrderStore, gateway payment.Gateway, events EventPublisher) *PaymentHandler {
	if orders == nil || gateway == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Orders: orders, Gateway: gateway, Events: events}
}

// gatewayTimeout bounds calls against the external gateway; it is
// longer than the store timeout because checkout creation round-trips
// the public internet.
const gatewayTimeout = 20 * time.Second

type checkoutReq struct {
	Price         float64 `json:"price"`
	BookName      string  `json:"bookName"`
	CustomerEmail string  `json:"customer_email"`
	OrderID       string  `json:"orderId"`
}

// CreateCheckoutSession handles POST /create-checkout-session. It
// builds a gateway session for the order and returns the redirect URL
// the client sends the customer to. Gateway failures surface as server
// errors carrying the gateway's message.
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return respond(c, apierr.Invalid("invalid body"))
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	req.BookName = strings.TrimSpace(req.BookName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if req.OrderID == "" || req.BookName == "" || req.CustomerEmail == "" {
		return respond(c, apierr.Invalid("orderId, bookName and customer_email are required"))
	}
	if req.Price <= 0 {
		return respond(c, apierr.Invalid("price must be positive"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), gatewayTimeout)
	defer cancel()

	sess, err := h.Gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		OrderID:       req.OrderID,
		BookName:      req.BookName,
		CustomerEmail: req.CustomerEmail,
		Price:         req.Price,
	})
	if err != nil {
		return respond(c, apierr.Server(err.Error()))
	}
	return c.JSON(http.StatusOK, echo.Map{"url": sess.URL})
}

// PaymentSuccess handles PATCH /payment-success?session_id=... — the
// reconciliation step after the gateway redirects the customer back.
// Only sessions the gateway reports as paid mutate the order; anything
// else gets an explicit {"updated": false} acknowledgment. Duplicate
// notifications for an already-settled order are no-ops.
func (h *PaymentHandler) PaymentSuccess(c echo.Context) error {
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return respond(c, apierr.Invalid("session_id is required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), gatewayTimeout)
	defer cancel()

	sess, err := h.Gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return respond(c, apierr.Server(err.Error()))
	}
	if sess.PaymentStatus != payment.StatusPaid {
		return c.JSON(http.StatusOK, echo.Map{
			"updated":        false,
			"payment_status": sess.PaymentStatus,
		})
	}

	orderID := sess.Metadata["orderId"]
	if orderID == "" {
		return respond(c, apierr.Server("session is missing order metadata"))
	}

	paidAt := time.Now().UTC()
	applied, err := h.Orders.MarkPaid(ctx, orderID, sess.PaymentIntent, paidAt)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return respond(c, apierr.Missing("order not found for session"))
		case errors.Is(err, repository.ErrConflict):
			return respond(c, apierr.Conflicted("order cannot be settled in its current state"))
		}
		return respond(c, apierr.Server("apply settlement failed"))
	}
	if !applied {
		// Already settled under the same transaction reference.
		return c.JSON(http.StatusOK, echo.Map{
			"updated":       false,
			"transactionId": sess.PaymentIntent,
		})
	}

	if h.Events != nil {
		if ord, err := h.Orders.GetByID(ctx, orderID); err == nil {
			_ = h.Events.OrderPaid(ctx, queue.OrderPaidEvent{
				OrderID:       orderID,
				TransactionID: sess.PaymentIntent,
				CustomerEmail: ord.CustomerEmail,
				Amount:        ord.Price,
				PaidAt:        paidAt.Format(time.RFC3339),
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"updated":       true,
		"transactionId": sess.PaymentIntent,
	})
}
