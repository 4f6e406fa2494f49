// Package payment bridges orders to the Stripe Checkout API. It builds
// checkout sessions for pending orders and retrieves their settlement
// outcome for the reconciler. Only the session contract is consumed
// here; webhooks and the rest of the gateway surface are out of scope.
package payment

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultAPIURL = "https://api.stripe.com"

// StatusPaid is the payment_status value of a settled session. Only
// sessions in this state may mutate an order.
const StatusPaid = "paid"

// CheckoutRequest carries the order fields needed to open a checkout
// session. Price is in major currency units.
type CheckoutRequest struct {
	OrderID       string
	BookName      string
	CustomerEmail string
	Price         float64
}

// Session is the slice of the gateway session the service consumes:
// the redirect URL after creation, and the settlement outcome plus the
// correlating order id on retrieval.
type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	PaymentStatus string            `json:"payment_status"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

// Gateway is the contract handlers depend on; StripeClient is the
// production implementation.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (Session, error)
	RetrieveSession(ctx context.Context, id string) (Session, error)
}

// StripeClient talks to the Stripe REST API with the account secret key.
type StripeClient struct {
	http         *resty.Client
	clientOrigin string
}

// NewStripeClient builds a client. baseURL overrides the API host for
// tests; empty selects the production endpoint. clientOrigin is the
// frontend origin the customer is redirected back to.
func NewStripeClient(secretKey, baseURL, clientOrigin string) *StripeClient {
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(15 * time.Second)
	return &StripeClient{http: c, clientOrigin: clientOrigin}
}

// stripeError mirrors the gateway's error envelope.
type stripeError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckoutSession opens a payment session for one order: a single
// line item named after the book, the price converted to minor units
// (×100, truncating), the order id carried in session metadata, and
// success/cancel URLs pointing back at the client app. The success URL
// carries the session id so the client can trigger reconciliation.
func (s *StripeClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (Session, error) {
	unitAmount := minorUnits(req.Price)
	form := map[string]string{
		"mode":           "payment",
		"customer_email": req.CustomerEmail,
		"line_items[0][quantity]":                        "1",
		"line_items[0][price_data][currency]":            "usd",
		"line_items[0][price_data][unit_amount]":         strconv.FormatInt(unitAmount, 10),
		"line_items[0][price_data][product_data][name]":  req.BookName,
		"metadata[orderId]": req.OrderID,
		"success_url":       s.clientOrigin + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		"cancel_url":        s.clientOrigin + "/payment-cancelled",
	}

	var sess Session
	var apiErr stripeError
	resp, err := s.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&sess).
		SetError(&apiErr).
		Post("/v1/checkout/sessions")
	if err != nil {
		return Session{}, err
	}
	if resp.IsError() {
		return Session{}, gatewayError(resp.StatusCode(), apiErr)
	}
	return sess, nil
}

// RetrieveSession fetches the current state of a checkout session.
func (s *StripeClient) RetrieveSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	var apiErr stripeError
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&sess).
		SetError(&apiErr).
		Get("/v1/checkout/sessions/" + id)
	if err != nil {
		return Session{}, err
	}
	if resp.IsError() {
		return Session{}, gatewayError(resp.StatusCode(), apiErr)
	}
	return sess, nil
}

// minorUnits converts a major-unit price to the gateway's integer
// minor-unit amount. Rounded, not truncated: 19.99*100 is 1998.999…
// in float64 and truncation would undercharge by a cent.
func minorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func gatewayError(status int, e stripeError) error {
	if e.Error.Message != "" {
		return fmt.Errorf("stripe: %s", e.Error.Message)
	}
	return fmt.Errorf("stripe: unexpected status %d", status)
}
