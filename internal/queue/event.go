// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names. Routing uses the default exchange, so the routing key is
// the queue name.
const (
	OrderCreatedQueue = "order.created"
	OrderPaidQueue    = "order.paid"
)

// OrderCreatedEvent is published when a new order is stored. Downstream
// consumers (analytics, seller notifications) get enough context to act
// without querying the primary database.
type OrderCreatedEvent struct {
	EventID       string  `json:"event_id"`
	OrderID       string  `json:"order_id"`
	BookID        string  `json:"book_id"`
	CustomerEmail string  `json:"customer_email"`
	SellerEmail   string  `json:"seller_email"`
	Price         float64 `json:"price"`
	CreatedAt     string  `json:"created_at"`
}

// OrderPaidEvent is published after reconciliation settles an order.
// EventID lets consumers deduplicate redelivered messages.
type OrderPaidEvent struct {
	EventID       string  `json:"event_id"`
	OrderID       string  `json:"order_id"`
	TransactionID string  `json:"transaction_id"`
	CustomerEmail string  `json:"customer_email"`
	Amount        float64 `json:"amount"`
	PaidAt        string  `json:"paid_at"`
}
