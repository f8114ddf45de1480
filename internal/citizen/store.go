package citizen

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("citizen: not found")

// Store is the persistence contract for citizen records.
// There is deliberately no update or delete: the identity binding is
// immutable and retention is indefinite.
type Store interface {
	Insert(ctx context.Context, c *Citizen) error
	FindByID(ctx context.Context, id primitive.ObjectID) (Citizen, error)
	FindBySubject(ctx context.Context, subjectID string) (Citizen, error)
}
