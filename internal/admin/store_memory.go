package admin

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu     sync.Mutex
	admins map[primitive.ObjectID]Admin
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{admins: make(map[primitive.ObjectID]Admin)}
}

func (s *MemoryStore) Insert(_ context.Context, a *Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	s.admins[a.ID] = *a
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return Admin{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return Admin{}, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context) ([]Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Admin, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) HasSuperadmin(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.Role == RoleSuperadmin {
			return true, nil
		}
	}
	return false, nil
}

// Deactivate flips the active flag; test helper for the auth paths.
func (s *MemoryStore) Deactivate(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.admins[id]; ok {
		a.Active = false
		s.admins[id] = a
	}
}
