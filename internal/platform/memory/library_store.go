package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/store"
)

// LibraryItemStore implements store.LibraryItemStore with an RWMutex-guarded map.
type LibraryItemStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.LibraryItem
}

// NewLibraryItemStore creates an empty in-memory library item store.
func NewLibraryItemStore() *LibraryItemStore {
	return &LibraryItemStore{
		items: make(map[uuid.UUID]*domain.LibraryItem),
	}
}

// Ensure LibraryItemStore implements store.LibraryItemStore interface
var _ store.LibraryItemStore = (*LibraryItemStore)(nil)

// Create implements store.LibraryItemStore.Create.
func (s *LibraryItemStore) Create(ctx context.Context, item *domain.LibraryItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *item
	s.items[item.ID] = &stored
	return nil
}

// GetByID implements store.LibraryItemStore.GetByID.
func (s *LibraryItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LibraryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, store.ErrLibraryItemNotFound
	}

	copied := *item
	return &copied, nil
}

// ListAll implements store.LibraryItemStore.ListAll.
func (s *LibraryItemStore) ListAll(ctx context.Context) ([]*domain.LibraryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*domain.LibraryItem, 0, len(s.items))
	for _, item := range s.items {
		copied := *item
		items = append(items, &copied)
	}
	return items, nil
}
