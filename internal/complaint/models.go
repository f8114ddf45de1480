package complaint

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the closed set of complaint categories. Anything else is a
// validation failure at write time.
type Category string

const (
	CategoryStreetLight Category = "Street Light"
	CategoryRoad        Category = "Road"
	CategoryDrainage    Category = "Nala/Drainage"
	CategoryWater       Category = "Water"
	CategorySchool      Category = "School"
)

func Categories() []Category {
	return []Category{CategoryStreetLight, CategoryRoad, CategoryDrainage, CategoryWater, CategorySchool}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryStreetLight, CategoryRoad, CategoryDrainage, CategoryWater, CategorySchool:
		return true
	}
	return false
}

// Status is the closed lifecycle enumeration. Any status may move to any
// other status; there is no transition table and Solved/Rejected are not
// terminal.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusApproved   Status = "Approved"
	StatusInProgress Status = "In Progress"
	StatusSolved     Status = "Solved"
	StatusRejected   Status = "Rejected"
)

func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusInProgress, StatusSolved, StatusRejected}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusInProgress, StatusSolved, StatusRejected:
		return true
	}
	return false
}

// PubliclyVisible reports whether complaints with this status appear in
// the public feed. Pending and Rejected stay hidden: unmoderated or
// rejected submissions are visible only to the owner and administrators.
func (s Status) PubliclyVisible() bool {
	switch s {
	case StatusApproved, StatusInProgress, StatusSolved:
		return true
	}
	return false
}

// VisibleStatuses is the public-feed filter set.
func VisibleStatuses() []Status {
	return []Status{StatusApproved, StatusInProgress, StatusSolved}
}

type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address,omitempty" json:"address,omitempty"`
}

// StatusHistoryEntry is one audit record in a complaint's lifecycle.
// Entries are append-only: never edited, never removed. UpdatedBy is nil
// only for the system-generated initial entry.
type StatusHistoryEntry struct {
	Status    Status              `bson:"status" json:"status"`
	Remark    string              `bson:"remark,omitempty" json:"remark,omitempty"`
	UpdatedBy *primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	Timestamp time.Time           `bson:"timestamp" json:"timestamp"`
}

// Complaint is the stored record.
//
// Invariants:
// - StatusHistory has at least one entry; the first is always
//   {Pending, "Complaint submitted", no admin}, written atomically with
//   the document itself.
// - Status equals the status of the last history entry.
// - CreatedBy is set at creation and never reassigned.
// - AssignedTo, if present, references an existing administrator.
type Complaint struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title         string               `bson:"title" json:"title"`
	Category      Category             `bson:"category" json:"category"`
	Description   string               `bson:"description" json:"description"`
	ImageURL      string               `bson:"imageUrl" json:"imageUrl"`
	Location      Location             `bson:"location" json:"location"`
	Status        Status               `bson:"status" json:"status"`
	CreatedBy     primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	AssignedTo    *primitive.ObjectID  `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	StatusHistory []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

const initialRemark = "Complaint submitted"

// PersonRef is a display reference to a citizen or administrator joined
// into responses.
type PersonRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// View is a complaint enriched with owner/assignee display references
// and, on detail reads, per-entry updater references.
type View struct {
	Complaint
	Owner          *PersonRef           `json:"owner,omitempty"`
	Assignee       *PersonRef           `json:"assignee,omitempty"`
	HistoryUpdater map[string]PersonRef `json:"historyUpdaters,omitempty"`
}

// Stats are aggregate counts computed from live store state at call
// time; nothing here is cached.
type Stats struct {
	Total      int64              `json:"total"`
	Pending    int64              `json:"pending"`
	Approved   int64              `json:"approved"`
	InProgress int64              `json:"inProgress"`
	Solved     int64              `json:"solved"`
	Rejected   int64              `json:"rejected"`
	ByCategory map[Category]int64 `json:"byCategory"`
}
