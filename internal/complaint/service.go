package complaint

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gramsewa/internal/admin"
	"gramsewa/internal/citizen"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidArgument  = errors.New("complaint: invalid argument")
	ErrAssigneeNotFound = errors.New("complaint: assignee not found")
)

const publicFeedLimit = 50
const defaultPageSize = 20

// Service is the complaint lifecycle engine. Every mutation goes through
// here; handlers never touch the store directly. The service performs no
// identity provisioning: callers hand it already-resolved principals.
type Service struct {
	store    Store
	citizens citizen.Store
	admins   admin.Store
	clock    func() time.Time
}

func NewService(store Store, citizens citizen.Store, admins admin.Store) *Service {
	return &Service{
		store:    store,
		citizens: citizens,
		admins:   admins,
		clock:    time.Now,
	}
}

type CreateRequest struct {
	Title       string
	Category    Category
	Description string
	ImageURL    string
	Latitude    float64
	Longitude   float64
	Address     string
}

func (r CreateRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("%w: category %q", ErrInvalidArgument, r.Category)
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidArgument)
	}
	if r.ImageURL == "" {
		return fmt.Errorf("%w: image is required", ErrInvalidArgument)
	}
	if !isFinite(r.Latitude) || !isFinite(r.Longitude) {
		return fmt.Errorf("%w: latitude and longitude must be finite", ErrInvalidArgument)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Create persists a new complaint owned by the calling citizen. The
// initial history entry is part of the inserted document, so a complaint
// can never exist with zero history.
func (s *Service) Create(ctx context.Context, ownerID primitive.ObjectID, req CreateRequest) (View, error) {
	if err := req.validate(); err != nil {
		return View{}, err
	}

	now := s.clock().UTC()
	c := Complaint{
		Title:       strings.TrimSpace(req.Title),
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location: Location{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Address:   strings.TrimSpace(req.Address),
		},
		Status:    StatusPending,
		CreatedBy: ownerID,
		StatusHistory: []StatusHistoryEntry{{
			Status:    StatusPending,
			Remark:    initialRemark,
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, &c); err != nil {
		return View{}, err
	}
	return s.view(ctx, c, false), nil
}

// ListMine returns the calling citizen's complaints, newest first, with
// no status filtering: owners always see their own Pending and Rejected
// submissions.
func (s *Service) ListMine(ctx context.Context, ownerID primitive.ObjectID) ([]View, error) {
	rows, err := s.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, rows), nil
}

// PublicFeed returns the newest publicly visible complaints, capped.
func (s *Service) PublicFeed(ctx context.Context) ([]View, error) {
	rows, err := s.store.FindVisible(ctx, VisibleStatuses(), publicFeedLimit)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, rows), nil
}

// GetByID returns one complaint with full history references. There is
// no visibility filtering at this granularity: detail pages are
// linkable.
func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (View, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, c, true), nil
}

type ListRequest struct {
	Filter   Filter
	Page     int64
	PageSize int64
}

type ListResult struct {
	Complaints []View `json:"complaints"`
	Total      int64  `json:"count"`
	Page       int64  `json:"currentPage"`
	TotalPages int64  `json:"totalPages"`
}

// List is the administrator listing: filtered, paginated, newest first.
// The total comes from a separate count query over the same filter.
func (s *Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	if req.Filter.Category != "" && !req.Filter.Category.Valid() {
		return ListResult{}, fmt.Errorf("%w: category %q", ErrInvalidArgument, req.Filter.Category)
	}
	if req.Filter.Status != "" && !req.Filter.Status.Valid() {
		return ListResult{}, fmt.Errorf("%w: status %q", ErrInvalidArgument, req.Filter.Status)
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = defaultPageSize
	}

	total, err := s.store.Count(ctx, req.Filter)
	if err != nil {
		return ListResult{}, err
	}
	rows, err := s.store.FindPage(ctx, req.Filter, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Complaints: s.views(ctx, rows),
		Total:      total,
		Page:       req.Page,
		TotalPages: (total + req.PageSize - 1) / req.PageSize,
	}, nil
}

// UpdateStatus moves a complaint to the target status and appends the
// audit entry in one store write. An empty remark gets the standard
// default. Any status may transition to any other.
func (s *Service) UpdateStatus(ctx context.Context, id, adminID primitive.ObjectID, status Status, remark string) (View, error) {
	if !status.Valid() {
		return View{}, fmt.Errorf("%w: status %q", ErrInvalidArgument, status)
	}
	if remark == "" {
		remark = fmt.Sprintf("Status updated to %s", status)
	}

	entry := StatusHistoryEntry{
		Status:    status,
		Remark:    remark,
		UpdatedBy: &adminID,
		Timestamp: s.clock().UTC(),
	}
	c, err := s.store.AppendStatus(ctx, id, status, entry)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, c, true), nil
}

// Assign sets the assignee. Assignment is independent of status: no
// history entry is appended and the status scalar is untouched. The
// assignee must resolve to an existing administrator.
func (s *Service) Assign(ctx context.Context, id, assigneeID primitive.ObjectID) (View, error) {
	if _, err := s.admins.FindByID(ctx, assigneeID); err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			return View{}, ErrAssigneeNotFound
		}
		return View{}, err
	}

	c, err := s.store.SetAssignee(ctx, id, assigneeID)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, c, false), nil
}

// Stats computes aggregate counts from current store state.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.store.Count(ctx, Filter{})
	if err != nil {
		return Stats{}, err
	}
	byStatus, err := s.store.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	byCategory, err := s.store.CountByCategory(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Total:      total,
		Pending:    byStatus[StatusPending],
		Approved:   byStatus[StatusApproved],
		InProgress: byStatus[StatusInProgress],
		Solved:     byStatus[StatusSolved],
		Rejected:   byStatus[StatusRejected],
		ByCategory: byCategory,
	}, nil
}

// view joins display references. Join failures degrade to the bare
// record rather than failing the read: a principal deleted out-of-band
// must not break complaint pages.
func (s *Service) view(ctx context.Context, c Complaint, withHistory bool) View {
	v := View{Complaint: c}

	if owner, err := s.citizens.FindByID(ctx, c.CreatedBy); err == nil {
		v.Owner = &PersonRef{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	}
	if c.AssignedTo != nil {
		if a, err := s.admins.FindByID(ctx, *c.AssignedTo); err == nil {
			v.Assignee = &PersonRef{ID: a.ID, Name: a.Name, Email: a.Email}
		}
	}
	if withHistory {
		for _, e := range c.StatusHistory {
			if e.UpdatedBy == nil {
				continue
			}
			if v.HistoryUpdater == nil {
				v.HistoryUpdater = make(map[string]PersonRef)
			}
			key := e.UpdatedBy.Hex()
			if _, done := v.HistoryUpdater[key]; done {
				continue
			}
			if a, err := s.admins.FindByID(ctx, *e.UpdatedBy); err == nil {
				v.HistoryUpdater[key] = PersonRef{ID: a.ID, Name: a.Name, Email: a.Email}
			}
		}
	}
	return v
}

func (s *Service) views(ctx context.Context, rows []Complaint) []View {
	out := make([]View, 0, len(rows))
	for _, c := range rows {
		out = append(out, s.view(ctx, c, false))
	}
	return out
}
