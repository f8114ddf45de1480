package complaint

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("complaint: not found")

// Filter narrows the admin listing. Zero values mean "no constraint".
// TitleSearch matches as a case-insensitive substring.
type Filter struct {
	Category    Category
	Status      Status
	TitleSearch string
}

// Store is the persistence contract for complaints.
//
// AppendStatus must set the status scalar and append the history entry
// in one single-document write, so concurrent updates can interleave on
// the scalar (last write wins) but never lose a history entry. There is
// no delete: retention is indefinite.
type Store interface {
	Insert(ctx context.Context, c *Complaint) error
	FindByID(ctx context.Context, id primitive.ObjectID) (Complaint, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]Complaint, error)
	FindVisible(ctx context.Context, statuses []Status, limit int64) ([]Complaint, error)
	FindPage(ctx context.Context, f Filter, skip, limit int64) ([]Complaint, error)
	Count(ctx context.Context, f Filter) (int64, error)
	AppendStatus(ctx context.Context, id primitive.ObjectID, status Status, entry StatusHistoryEntry) (Complaint, error)
	SetAssignee(ctx context.Context, id, adminID primitive.ObjectID) (Complaint, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	CountByCategory(ctx context.Context) (map[Category]int64, error)
}
