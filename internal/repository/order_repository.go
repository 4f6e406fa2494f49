package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/book-marketplace/internal/model"
)

// OrderRepo provides persistence for the orders collection. All
// timestamps are stored in UTC. Single-document updates are atomic;
// nothing here spans more than one document.
type OrderRepo struct {
	orders *mongo.Collection
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{orders: db.Collection("orders")}
}

// Create inserts a new order in the pending/unpaid state and returns
// the hex id assigned to it. The caller supplies references and price;
// lifecycle fields are owned by the store.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) (string, error) {
	o.ID = primitive.NewObjectID()
	o.Status = model.StatusPending
	o.PaymentStatus = model.PaymentUnpaid
	o.CreatedAt = time.Now().UTC()
	if _, err := r.orders.InsertOne(ctx, o); err != nil {
		return "", err
	}
	return o.ID.Hex(), nil
}

// List returns every order. No pagination; the caller gets the full set.
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	return r.find(ctx, bson.M{}, nil)
}

// ListByCustomer returns the orders placed by the given customer email.
func (r *OrderRepo) ListByCustomer(ctx context.Context, email string) ([]model.Order, error) {
	return r.find(ctx, bson.M{"customerEmail": email}, nil)
}

// ListBySeller returns the orders referencing books sold by the given email.
func (r *OrderRepo) ListBySeller(ctx context.Context, email string) ([]model.Order, error) {
	return r.find(ctx, bson.M{"sellerEmail": email}, nil)
}

// ListPaidInvoices returns the customer's settled orders, newest first.
func (r *OrderRepo) ListPaidInvoices(ctx context.Context, email string) ([]model.Order, error) {
	filter := bson.M{"customerEmail": email, "paymentStatus": model.PaymentPaid}
	sort := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, filter, sort)
}

// GetByID fetches one order by hex id. ErrNotFound covers both a
// malformed id and an absent document.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (model.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Order{}, ErrNotFound
	}
	var o model.Order
	err = r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

// UpdateStatus sets the business status of an order. It reports
// ErrNotFound when the update matched zero documents. Transition
// validation happens in the handler against the current state.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.orders.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid applies the settlement outcome to an order. The update only
// matches orders still pending and unpaid, so settlement can never pull
// an order out of a terminal status: duplicate gateway notifications
// are no-ops (false, nil) and anything else — a cancelled order, or one
// settled under a different transaction reference — is ErrConflict.
func (r *OrderRepo) MarkPaid(ctx context.Context, id, transactionID string, paidAt time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrNotFound
	}
	res, err := r.orders.UpdateOne(ctx,
		bson.M{"_id": oid, "status": model.StatusPending, "paymentStatus": model.PaymentUnpaid},
		bson.M{"$set": bson.M{
			"paymentStatus": model.PaymentPaid,
			"status":        model.StatusPaid,
			"transactionId": transactionID,
			"paidAt":        paidAt,
		}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	// Zero matches: the order is absent, settled, or cancelled.
	var o model.Order
	err = r.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return settlementOutcome(o, transactionID)
}

// settlementOutcome classifies an order the settlement update did not
// match. A repeat notification for an order already settled under the
// same transaction reference is a harmless no-op; any other state
// (cancelled, or settled under a different reference) conflicts.
func settlementOutcome(o model.Order, transactionID string) (bool, error) {
	if o.PaymentStatus == model.PaymentPaid && o.TransactionID == transactionID {
		return false, nil
	}
	return false, ErrConflict
}

// Delete removes one order. ErrNotFound when nothing was deleted.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.orders.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Order, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.orders.Find(ctx, filter, opts)
	} else {
		cur, err = r.orders.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	out := make([]model.Order, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
