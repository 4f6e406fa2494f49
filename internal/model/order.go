package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle statuses. Status tracks the business state of the
// purchase while PaymentStatus tracks settlement only and is written
// exclusively by the payment reconciler.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"

	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// Order is a purchase of a single listed book, stored in the `orders`
// collection. BookID, SellerEmail and CustomerEmail are loose references;
// the store does not enforce referential integrity between collections.
//
// Fields:
//  ID            – Mongo object id, assigned at insertion, immutable.
//  BookID        – hex id of the listed book.
//  SellerEmail   – email of the listing owner.
//  CustomerEmail – email of the buyer.
//  Price         – amount in major currency units (e.g. dollars).
//  Status        – pending | paid | cancelled.
//  PaymentStatus – unpaid | paid, set only by reconciliation.
//  TransactionID – gateway payment reference, set once on settlement.
//  CreatedAt     – insertion timestamp (UTC).
//  PaidAt        – settlement timestamp, nil until reconciled.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	BookID        string             `bson:"bookId" json:"bookId"`
	SellerEmail   string             `bson:"sellerEmail" json:"sellerEmail"`
	CustomerEmail string             `bson:"customerEmail" json:"customerEmail"`
	Price         float64            `bson:"price" json:"price"`
	Status        string             `bson:"status" json:"status"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	PaidAt        *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another. Pending orders may be paid or cancelled; paid and cancelled
// are terminal. Re-applying the current status is allowed so duplicate
// admin edits and gateway retries stay harmless no-ops.
func CanTransition(from, to string) bool {
	if from == to {
		return ValidStatus(to)
	}
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusCancelled
	}
	return false
}
