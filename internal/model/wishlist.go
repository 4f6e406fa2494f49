package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WishlistItem marks a book a user wants to buy later, stored in the
// `wishList` collection. BookID is a loose reference to the books
// collection.
type WishlistItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	BookID    string             `bson:"bookId" json:"bookId"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}
