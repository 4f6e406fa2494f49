package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/book-marketplace/internal/model"
)

// UserRepo provides persistence for the user collection, keyed by
// normalized email. At most one document exists per address; the login
// upsert relies on that.
type UserRepo struct {
	users *mongo.Collection
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{users: db.Collection("user")}
}

// Upsert records a login for the given email. A first login creates the
// account with the customer role; later logins only refresh lastLoginAt.
// It reports whether a new account was created.
func (r *UserRepo) Upsert(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	now := time.Now().UTC()
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set": bson.M{"lastLoginAt": now},
			"$setOnInsert": bson.M{
				"email":     email,
				"role":      model.RoleCustomer,
				"createdAt": now,
			},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.users.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by hex id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, ErrNotFound
	}
	var u model.User
	err = r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// UpdateRole sets the role of the user with the given id. ErrNotFound
// when the update matched zero documents. Role validation happens at
// the handler boundary.
func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
