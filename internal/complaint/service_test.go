package complaint

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"gramsewa/internal/admin"
	"gramsewa/internal/citizen"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	svc      *Service
	store    *MemoryStore
	citizens *citizen.MemoryStore
	admins   *admin.MemoryStore
	owner    citizen.Citizen
	admin    admin.Admin
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    NewMemoryStore(),
		citizens: citizen.NewMemoryStore(),
		admins:   admin.NewMemoryStore(),
		now:      time.Unix(1700000000, 0).UTC(),
	}
	f.owner = citizen.Citizen{Name: "Sita", Email: "sita@example.com", SubjectID: "sub-1"}
	if err := f.citizens.Insert(context.Background(), &f.owner); err != nil {
		t.Fatalf("seed citizen: %v", err)
	}
	f.admin = admin.Admin{Name: "Asha", Email: "asha@gramsewa.com", Role: admin.RoleAdmin, Active: true}
	if err := f.admins.Insert(context.Background(), &f.admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	f.svc = NewService(f.store, f.citizens, f.admins)
	f.svc.clock = func() time.Time { return f.now }
	return f
}

func validCreate() CreateRequest {
	return CreateRequest{
		Title:       "Broken lamp",
		Category:    CategoryStreetLight,
		Description: "The lamp at the corner has been dark for a week.",
		ImageURL:    "https://blob/img-1.jpg",
		Latitude:    28.6,
		Longitude:   77.2,
	}
}

func TestCreate_InitialHistoryEntry(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.Create(context.Background(), f.owner.ID, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Status != StatusPending {
		t.Fatalf("expected Pending, got %q", v.Status)
	}
	if v.CreatedBy != f.owner.ID {
		t.Fatalf("owner mismatch")
	}
	if len(v.StatusHistory) != 1 {
		t.Fatalf("expected exactly one history entry, got %d", len(v.StatusHistory))
	}
	first := v.StatusHistory[0]
	if first.Status != StatusPending || first.Remark != "Complaint submitted" || first.UpdatedBy != nil {
		t.Fatalf("unexpected initial entry: %+v", first)
	}
	if v.Owner == nil || v.Owner.Name != "Sita" {
		t.Fatalf("expected owner reference joined, got %+v", v.Owner)
	}
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]func(*CreateRequest){
		"missing title":       func(r *CreateRequest) { r.Title = "" },
		"missing description": func(r *CreateRequest) { r.Description = "" },
		"missing image":       func(r *CreateRequest) { r.ImageURL = "" },
		"unknown category":    func(r *CreateRequest) { r.Category = "Garbage" },
		"NaN latitude":        func(r *CreateRequest) { r.Latitude = math.NaN() },
		"infinite longitude":  func(r *CreateRequest) { r.Longitude = math.Inf(1) },
	}
	for name, mutate := range cases {
		req := validCreate()
		mutate(&req)
		if _, err := f.svc.Create(context.Background(), f.owner.ID, req); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}

	// No partial writes on rejection.
	if n, _ := f.store.Count(context.Background(), Filter{}); n != 0 {
		t.Fatalf("expected empty store after rejected creates, got %d", n)
	}
}

func TestUpdateStatus_AppendsEntryAndKeepsScalarInSync(t *testing.T) {
	f := newFixture(t)
	v, err := f.svc.Create(context.Background(), f.owner.ID, validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.now = f.now.Add(time.Hour)
	got, err := f.svc.UpdateStatus(context.Background(), v.ID, f.admin.ID, StatusApproved, "Looks valid")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != StatusApproved {
		t.Fatalf("expected Approved, got %q", got.Status)
	}
	if len(got.StatusHistory) != 2 {
		t.Fatalf("expected history length 2, got %d", len(got.StatusHistory))
	}
	last := got.StatusHistory[len(got.StatusHistory)-1]
	if last.Remark != "Looks valid" || last.UpdatedBy == nil || *last.UpdatedBy != f.admin.ID {
		t.Fatalf("unexpected appended entry: %+v", last)
	}
	if last.Timestamp != f.now {
		t.Fatalf("expected entry timestamp from clock")
	}
}

func TestUpdateStatus_DefaultRemark(t *testing.T) {
	f := newFixture(t)
	v, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())

	got, err := f.svc.UpdateStatus(context.Background(), v.ID, f.admin.ID, StatusApproved, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	last := got.StatusHistory[len(got.StatusHistory)-1]
	if last.Remark != "Status updated to Approved" {
		t.Fatalf("expected default remark, got %q", last.Remark)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	v, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())

	if _, err := f.svc.UpdateStatus(context.Background(), v.ID, f.admin.ID, "Escalated", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}

	// Rejection leaves no trace: no history entry, no status mutation.
	after, _ := f.store.FindByID(context.Background(), v.ID)
	if after.Status != StatusPending || len(after.StatusHistory) != 1 {
		t.Fatalf("rejected update mutated the complaint: %+v", after)
	}
}

func TestUpdateStatus_UnknownComplaint(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.UpdateStatus(context.Background(), primitive.NewObjectID(), f.admin.ID, StatusApproved, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusAlwaysMatchesLastHistoryEntry(t *testing.T) {
	f := newFixture(t)
	v, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())

	sequence := []Status{StatusApproved, StatusInProgress, StatusSolved, StatusRejected, StatusApproved}
	for i, st := range sequence {
		f.now = f.now.Add(time.Minute)
		got, err := f.svc.UpdateStatus(context.Background(), v.ID, f.admin.ID, st, "")
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
		last := got.StatusHistory[len(got.StatusHistory)-1]
		if got.Status != last.Status {
			t.Fatalf("status %q diverged from last history entry %q", got.Status, last.Status)
		}
	}

	// Terminal-looking states are not terminal: the sequence above moved
	// out of Solved and out of Rejected without error.
	final, _ := f.store.FindByID(context.Background(), v.ID)
	if len(final.StatusHistory) != 1+len(sequence) {
		t.Fatalf("expected %d history entries, got %d", 1+len(sequence), len(final.StatusHistory))
	}
}

func TestPublicFeed_FiltersHiddenStatuses(t *testing.T) {
	f := newFixture(t)

	pending, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())
	f.now = f.now.Add(time.Minute)
	approved, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())
	if _, err := f.svc.UpdateStatus(context.Background(), approved.ID, f.admin.ID, StatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	f.now = f.now.Add(time.Minute)
	rejected, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())
	if _, err := f.svc.UpdateStatus(context.Background(), rejected.ID, f.admin.ID, StatusRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	feed, err := f.svc.PublicFeed(context.Background())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != approved.ID {
		t.Fatalf("expected only the approved complaint, got %d entries", len(feed))
	}
	for _, v := range feed {
		if v.ID == pending.ID || v.ID == rejected.ID {
			t.Fatalf("hidden status leaked into the public feed")
		}
	}

	// Pure filter: repeat with no intervening writes gives the same feed.
	again, _ := f.svc.PublicFeed(context.Background())
	if len(again) != len(feed) || again[0].ID != feed[0].ID {
		t.Fatalf("feed is not idempotent across repeated calls")
	}
}

func TestPublicFeed_CapAndOrder(t *testing.T) {
	f := newFixture(t)

	var last View
	for i := 0; i < publicFeedLimit+10; i++ {
		f.now = f.now.Add(time.Minute)
		v, err := f.svc.Create(context.Background(), f.owner.ID, validCreate())
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if _, err := f.svc.UpdateStatus(context.Background(), v.ID, f.admin.ID, StatusApproved, ""); err != nil {
			t.Fatalf("approve %d: %v", i, err)
		}
		last = v
	}

	feed, err := f.svc.PublicFeed(context.Background())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != publicFeedLimit {
		t.Fatalf("expected cap of %d, got %d", publicFeedLimit, len(feed))
	}
	if feed[0].ID != last.ID {
		t.Fatalf("expected newest first")
	}
}

func TestListMine_IncludesAllOwnStatuses(t *testing.T) {
	f := newFixture(t)

	mine, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())
	if _, err := f.svc.UpdateStatus(context.Background(), mine.ID, f.admin.ID, StatusRejected, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}

	other := citizen.Citizen{Name: "Gopal", Email: "gopal@example.com", SubjectID: "sub-2"}
	if err := f.citizens.Insert(context.Background(), &other); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), other.ID, validCreate()); err != nil {
		t.Fatalf("create other: %v", err)
	}

	got, err := f.svc.ListMine(context.Background(), f.owner.ID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("expected only the owner's complaint, got %d", len(got))
	}
	if got[0].Status != StatusRejected {
		t.Fatalf("owner must see rejected complaints")
	}
}

func TestAssign_SetsAssigneeWithoutHistoryOrStatusChange(t *testing.T) {
	f := newFixture(t)
	v, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())

	got, err := f.svc.Assign(context.Background(), v.ID, f.admin.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got.AssignedTo == nil || *got.AssignedTo != f.admin.ID {
		t.Fatalf("expected assignee set")
	}
	if got.Status != StatusPending || len(got.StatusHistory) != 1 {
		t.Fatalf("assignment must not touch status or history")
	}
	if got.Assignee == nil || got.Assignee.Name != "Asha" {
		t.Fatalf("expected assignee reference joined")
	}
}

func TestAssign_UnknownAdminRejected(t *testing.T) {
	f := newFixture(t)
	v, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())

	if _, err := f.svc.Assign(context.Background(), v.ID, primitive.NewObjectID()); !errors.Is(err, ErrAssigneeNotFound) {
		t.Fatalf("expected ErrAssigneeNotFound, got %v", err)
	}

	after, _ := f.store.FindByID(context.Background(), v.ID)
	if after.AssignedTo != nil {
		t.Fatalf("rejected assignment must leave assignedTo unchanged")
	}
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	v, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())
	if _, err := f.svc.UpdateStatus(context.Background(), v.ID, f.admin.ID, StatusApproved, "ok"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	got, err := f.svc.GetByID(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.StatusHistory) != 2 {
		t.Fatalf("expected full history on detail read")
	}
	if _, ok := got.HistoryUpdater[f.admin.ID.Hex()]; !ok {
		t.Fatalf("expected history updater reference joined")
	}

	if _, err := f.svc.GetByID(context.Background(), primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_FiltersAndPagination(t *testing.T) {
	f := newFixture(t)

	titles := []string{"Broken lamp", "Flooded road", "Dark street corner", "Leaking tap"}
	cats := []Category{CategoryStreetLight, CategoryRoad, CategoryStreetLight, CategoryWater}
	for i := range titles {
		f.now = f.now.Add(time.Minute)
		req := validCreate()
		req.Title = titles[i]
		req.Category = cats[i]
		if _, err := f.svc.Create(context.Background(), f.owner.ID, req); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	res, err := f.svc.List(context.Background(), ListRequest{Filter: Filter{Category: CategoryStreetLight}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 2 || len(res.Complaints) != 2 {
		t.Fatalf("expected 2 street light complaints, got total=%d len=%d", res.Total, len(res.Complaints))
	}

	res, err = f.svc.List(context.Background(), ListRequest{Filter: Filter{TitleSearch: "LAMP"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 || res.Complaints[0].Title != "Broken lamp" {
		t.Fatalf("case-insensitive title search failed: %+v", res)
	}

	res, err = f.svc.List(context.Background(), ListRequest{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 4 || len(res.Complaints) != 1 || res.TotalPages != 2 {
		t.Fatalf("pagination mismatch: total=%d len=%d pages=%d", res.Total, len(res.Complaints), res.TotalPages)
	}
	// Newest first: page 2 of size 3 holds the oldest record.
	if res.Complaints[0].Title != "Broken lamp" {
		t.Fatalf("expected oldest complaint on last page, got %q", res.Complaints[0].Title)
	}
}

func TestList_RejectsUnknownFilterValues(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.List(context.Background(), ListRequest{Filter: Filter{Status: "Escalated"}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown status filter, got %v", err)
	}
	if _, err := f.svc.List(context.Background(), ListRequest{Filter: Filter{Category: "Garbage"}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown category filter, got %v", err)
	}
}

func TestStats_LiveCounts(t *testing.T) {
	f := newFixture(t)

	a, _ := f.svc.Create(context.Background(), f.owner.ID, validCreate())
	req := validCreate()
	req.Category = CategoryWater
	if _, err := f.svc.Create(context.Background(), f.owner.ID, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.svc.UpdateStatus(context.Background(), a.ID, f.admin.ID, StatusSolved, ""); err != nil {
		t.Fatalf("solve: %v", err)
	}

	stats, err := f.svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.Pending != 1 || stats.Solved != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.ByCategory[CategoryStreetLight] != 1 || stats.ByCategory[CategoryWater] != 1 {
		t.Fatalf("unexpected category stats: %+v", stats.ByCategory)
	}

	// Live, not cached: a new write shows up immediately.
	if _, err := f.svc.Create(context.Background(), f.owner.ID, validCreate()); err != nil {
		t.Fatalf("create: %v", err)
	}
	stats, _ = f.svc.Stats(context.Background())
	if stats.Total != 3 || stats.Pending != 2 {
		t.Fatalf("stats did not reflect live state: %+v", stats)
	}
}
