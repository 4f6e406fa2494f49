package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/book-marketplace/internal/model"
)

// BookRepo provides persistence for the books collection. It also owns
// the cascade that removes a book together with the orders referencing
// it; that pair of writes runs inside a single session transaction so a
// crash cannot leave dangling order documents.
type BookRepo struct {
	client *mongo.Client
	books  *mongo.Collection
	orders *mongo.Collection
}

// NewBookRepo returns a BookRepo bound to the given client and database.
// The client is kept for starting cascade-delete sessions.
func NewBookRepo(client *mongo.Client, db *mongo.Database) *BookRepo {
	return &BookRepo{
		client: client,
		books:  db.Collection("books"),
		orders: db.Collection("orders"),
	}
}

// Create inserts a new listing and returns its hex id.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) (string, error) {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now().UTC()
	if _, err := r.books.InsertOne(ctx, b); err != nil {
		return "", err
	}
	return b.ID.Hex(), nil
}

// List returns every listing.
func (r *BookRepo) List(ctx context.Context) ([]model.Book, error) {
	cur, err := r.books.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]model.Book, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one listing by hex id.
func (r *BookRepo) GetByID(ctx context.Context, id string) (model.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Book{}, ErrNotFound
	}
	var b model.Book
	err = r.books.FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return model.Book{}, ErrNotFound
	}
	return b, err
}

// Update overwrites the editable fields of a listing. ErrNotFound when
// the update matched zero documents.
func (r *BookRepo) Update(ctx context.Context, id string, b model.Book) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"title":       b.Title,
		"author":      b.Author,
		"price":       b.Price,
		"status":      b.Status,
		"image":       b.Image,
		"description": b.Description,
	}}
	res, err := r.books.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus sets only the status field of a listing.
func (r *BookRepo) UpdateStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.books.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCascade removes a book and every order referencing it in one
// transaction. It returns the number of orders removed, or ErrNotFound
// when the book does not exist (in which case nothing is deleted).
// Requires the deployment to support sessions (replica set).
func (r *BookRepo) DeleteCascade(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrNotFound
	}
	session, err := r.client.StartSession()
	if err != nil {
		return 0, err
	}
	defer session.EndSession(ctx)

	removed, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.books.DeleteOne(sc, bson.M{"_id": oid})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, ErrNotFound
		}
		// Orders reference books by hex string, not ObjectID.
		ores, err := r.orders.DeleteMany(sc, bson.M{"bookId": id})
		if err != nil {
			return nil, err
		}
		return ores.DeletedCount, nil
	})
	if err != nil {
		return 0, err
	}
	return removed.(int64), nil
}
