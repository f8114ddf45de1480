package admin

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tiers. Keep these stable; they are part of the session token contract.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// Admin is an administrator principal. PasswordHash is a bcrypt hash and
// must never leave this package in a response; the json tag enforces
// that for every marshalling path.
//
// Deactivation (Active=false) blocks authentication without deleting the
// record, so history entries keep resolving.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	Active       bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
