package citizen

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Citizen is a resident account created on first successful delegated
// identity verification.
//
// Invariants:
// - SubjectID binds the record to the external provider subject and never
//   changes once set.
// - Citizens are never deleted; complaints reference them indefinitely.
type Citizen struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	SubjectID string             `bson:"googleId" json:"-"`
	PhotoURL  string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
