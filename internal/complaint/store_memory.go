package complaint

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory Store for tests. It mirrors the mongo
// implementation's semantics, including the single-write AppendStatus.
type MemoryStore struct {
	mu         sync.Mutex
	complaints map[primitive.ObjectID]Complaint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{complaints: make(map[primitive.ObjectID]Complaint)}
}

func (s *MemoryStore) Insert(_ context.Context, c *Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.complaints[c.ID] = clone(*c)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	return clone(c), nil
}

func (s *MemoryStore) FindByOwner(_ context.Context, ownerID primitive.ObjectID) ([]Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(c Complaint) bool { return c.CreatedBy == ownerID }, 0, 0), nil
}

func (s *MemoryStore) FindVisible(_ context.Context, statuses []Status, limit int64) ([]Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[Status]struct{}, len(statuses))
	for _, st := range statuses {
		set[st] = struct{}{}
	}
	return s.collect(func(c Complaint) bool {
		_, ok := set[c.Status]
		return ok
	}, 0, limit), nil
}

func (s *MemoryStore) FindPage(_ context.Context, f Filter, skip, limit int64) ([]Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(f.matches, skip, limit), nil
}

func (s *MemoryStore) Count(_ context.Context, f Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.complaints {
		if f.matches(c) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) AppendStatus(_ context.Context, id primitive.ObjectID, status Status, entry StatusHistoryEntry) (Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	c.Status = status
	c.StatusHistory = append(c.StatusHistory, entry)
	c.UpdatedAt = entry.Timestamp
	s.complaints[id] = c
	return clone(c), nil
}

func (s *MemoryStore) SetAssignee(_ context.Context, id, adminID primitive.ObjectID) (Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	c.AssignedTo = &adminID
	c.UpdatedAt = time.Now().UTC()
	s.complaints[id] = c
	return clone(c), nil
}

func (s *MemoryStore) CountByStatus(_ context.Context) (map[Status]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Status]int64)
	for _, c := range s.complaints {
		out[c.Status]++
	}
	return out, nil
}

func (s *MemoryStore) CountByCategory(_ context.Context) (map[Category]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Category]int64)
	for _, c := range s.complaints {
		out[c.Category]++
	}
	return out, nil
}

func (f Filter) matches(c Complaint) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.TitleSearch != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.TitleSearch)) {
		return false
	}
	return true
}

// collect filters, sorts newest first, then applies skip/limit.
// Callers must hold the lock.
func (s *MemoryStore) collect(match func(Complaint) bool, skip, limit int64) []Complaint {
	out := make([]Complaint, 0)
	for _, c := range s.complaints {
		if match(c) {
			out = append(out, clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if skip > 0 {
		if skip >= int64(len(out)) {
			return nil
		}
		out = out[skip:]
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func clone(c Complaint) Complaint {
	hist := make([]StatusHistoryEntry, len(c.StatusHistory))
	copy(hist, c.StatusHistory)
	c.StatusHistory = hist
	if c.AssignedTo != nil {
		id := *c.AssignedTo
		c.AssignedTo = &id
	}
	return c
}
