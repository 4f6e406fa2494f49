package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/book-marketplace/internal/model"
)

// WishlistRepo provides persistence for the wishList collection.
type WishlistRepo struct {
	items *mongo.Collection
}

// NewWishlistRepo returns a WishlistRepo bound to the given database.
func NewWishlistRepo(db *mongo.Database) *WishlistRepo {
	return &WishlistRepo{items: db.Collection("wishList")}
}

// Add stores a wishlist entry and returns its hex id.
func (r *WishlistRepo) Add(ctx context.Context, item *model.WishlistItem) (string, error) {
	item.ID = primitive.NewObjectID()
	item.AddedAt = time.Now().UTC()
	if _, err := r.items.InsertOne(ctx, item); err != nil {
		return "", err
	}
	return item.ID.Hex(), nil
}

// ListByUser returns the wishlist entries for the given email.
func (r *WishlistRepo) ListByUser(ctx context.Context, email string) ([]model.WishlistItem, error) {
	cur, err := r.items.Find(ctx, bson.M{"userEmail": email})
	if err != nil {
		return nil, err
	}
	out := make([]model.WishlistItem, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes one wishlist entry by hex id.
func (r *WishlistRepo) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.items.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
