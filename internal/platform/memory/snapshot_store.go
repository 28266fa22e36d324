package memory

import (
	"context"
	"sync"

	"github.com/studyloop/planner-api/internal/store"
)

// SnapshotStore implements store.SnapshotStore in process memory.
// Snapshots stored here do not survive a restart; production deployments
// use the redis-backed store instead.
type SnapshotStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSnapshotStore creates an empty in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		values: make(map[string]string),
	}
}

// Ensure SnapshotStore implements store.SnapshotStore interface
var _ store.SnapshotStore = (*SnapshotStore)(nil)

// Get implements store.SnapshotStore.Get.
func (s *SnapshotStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", store.ErrSnapshotNotFound
	}
	return value, nil
}

// Set implements store.SnapshotStore.Set.
func (s *SnapshotStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}
