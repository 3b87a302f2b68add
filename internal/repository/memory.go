package repository

import (
	"context"
	"sync"

	"github.com/jonesrussell/request-manager/internal/models"
)

// MemoryStore is an in-memory SnapshotRepository. It backs tests and the
// devtools reset flow; snapshots are deep-copied on both load and save so
// callers never share backing state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	requests []models.Request
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{requests: []models.Request{}}
}

// NewMemoryStoreWith returns an in-memory store pre-populated with the
// given requests.
func NewMemoryStoreWith(requests []models.Request) *MemoryStore {
	return &MemoryStore{requests: models.CloneRequests(requests)}
}

func (s *MemoryStore) LoadAll(_ context.Context) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneRequests(s.requests), nil
}

func (s *MemoryStore) SaveAll(_ context.Context, requests []models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = models.CloneRequests(requests)
	return nil
}
