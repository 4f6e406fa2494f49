package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a listing in the `books` collection. Catalog operations are
// plain reads and writes; deleting a book cascades to the orders that
// reference it.
type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author" json:"author"`
	Price       float64            `bson:"price" json:"price"`
	Status      string             `bson:"status" json:"status"`
	SellerEmail string             `bson:"sellerEmail" json:"sellerEmail"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
