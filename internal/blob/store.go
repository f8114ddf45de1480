package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/google/uuid"
)

// Store persists an uploaded binary and returns a URL where it can be
// fetched. Implementations must either store the whole object or return
// an error; no partial URL is ever produced.
type Store interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// ObjectName builds a collision-free object name preserving the
// original extension.
func ObjectName(original string) string {
	return uuid.NewString() + path.Ext(original)
}

// MemoryStore keeps objects in a map. Tests only.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, name, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
	return fmt.Sprintf("memory://%s", name), nil
}

func (s *MemoryStore) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[name]
	return data, ok
}
