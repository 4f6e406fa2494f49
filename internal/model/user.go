package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Marketplace roles. New accounts default to customer; the role is only
// ever changed through the admin role-update endpoint.
const (
	RoleCustomer  = "customer"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

// User is an account record in the `user` collection, keyed by email
// (one document per address). Accounts are created and refreshed by the
// login upsert; they are never deleted by this service.
//
// Fields:
//  ID          – Mongo object id.
//  Email       – unique address, identity established by the token verifier.
//  Role        – customer | librarian | admin.
//  CreatedAt   – first login timestamp.
//  LastLoginAt – refreshed on every login upsert.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	Role        string             `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	LastLoginAt time.Time          `bson:"lastLoginAt" json:"lastLoginAt"`
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleCustomer, RoleLibrarian, RoleAdmin:
		return true
	}
	return false
}
