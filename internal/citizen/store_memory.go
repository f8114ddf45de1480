package citizen

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu       sync.Mutex
	citizens map[primitive.ObjectID]Citizen
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{citizens: make(map[primitive.ObjectID]Citizen)}
}

func (s *MemoryStore) Insert(_ context.Context, c *Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.citizens[c.ID] = *c
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (Citizen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.citizens[id]
	if !ok {
		return Citizen{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) FindBySubject(_ context.Context, subjectID string) (Citizen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.citizens {
		if c.SubjectID == subjectID {
			return c, nil
		}
	}
	return Citizen{}, ErrNotFound
}
