package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/store"
)

// DeadlineStore implements store.DeadlineStore with an RWMutex-guarded map.
type DeadlineStore struct {
	mu        sync.RWMutex
	deadlines map[uuid.UUID]*domain.Deadline
}

// NewDeadlineStore creates an empty in-memory deadline store.
func NewDeadlineStore() *DeadlineStore {
	return &DeadlineStore{
		deadlines: make(map[uuid.UUID]*domain.Deadline),
	}
}

// Ensure DeadlineStore implements store.DeadlineStore interface
var _ store.DeadlineStore = (*DeadlineStore)(nil)

// Create implements store.DeadlineStore.Create.
func (s *DeadlineStore) Create(ctx context.Context, deadline *domain.Deadline) error {
	if err := deadline.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *deadline
	s.deadlines[deadline.ID] = &stored
	return nil
}

// GetByID implements store.DeadlineStore.GetByID.
func (s *DeadlineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deadline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deadline, ok := s.deadlines[id]
	if !ok {
		return nil, store.ErrDeadlineNotFound
	}

	copied := *deadline
	return &copied, nil
}

// ListAll implements store.DeadlineStore.ListAll.
func (s *DeadlineStore) ListAll(ctx context.Context) ([]*domain.Deadline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deadlines := make([]*domain.Deadline, 0, len(s.deadlines))
	for _, deadline := range s.deadlines {
		copied := *deadline
		deadlines = append(deadlines, &copied)
	}
	return deadlines, nil
}
