package admin

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("admin: not found")

// Store is the persistence contract for administrator records.
type Store interface {
	Insert(ctx context.Context, a *Admin) error
	FindByID(ctx context.Context, id primitive.ObjectID) (Admin, error)
	// FindByEmail returns the record including the password hash; it is
	// only for the credential exchange path.
	FindByEmail(ctx context.Context, email string) (Admin, error)
	List(ctx context.Context) ([]Admin, error)
	HasSuperadmin(ctx context.Context) (bool, error)
}
