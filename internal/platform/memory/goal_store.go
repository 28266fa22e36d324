package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/store"
)

// GoalStore implements store.GoalStore with an RWMutex-guarded map.
type GoalStore struct {
	mu    sync.RWMutex
	goals map[uuid.UUID]*domain.Goal
}

// NewGoalStore creates an empty in-memory goal store.
func NewGoalStore() *GoalStore {
	return &GoalStore{
		goals: make(map[uuid.UUID]*domain.Goal),
	}
}

// Ensure GoalStore implements store.GoalStore interface
var _ store.GoalStore = (*GoalStore)(nil)

// Create implements store.GoalStore.Create.
func (s *GoalStore) Create(ctx context.Context, goal *domain.Goal) error {
	if err := goal.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *goal
	s.goals[goal.ID] = &stored
	return nil
}

// GetByID implements store.GoalStore.GetByID.
func (s *GoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goal, ok := s.goals[id]
	if !ok {
		return nil, store.ErrGoalNotFound
	}

	copied := *goal
	return &copied, nil
}

// Update implements store.GoalStore.Update.
func (s *GoalStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.GoalPatch,
) (*domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[id]
	if !ok {
		return nil, store.ErrGoalNotFound
	}

	updated := *goal
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	s.goals[id] = &updated
	copied := updated
	return &copied, nil
}

// ListAll implements store.GoalStore.ListAll.
func (s *GoalStore) ListAll(ctx context.Context) ([]*domain.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := make([]*domain.Goal, 0, len(s.goals))
	for _, goal := range s.goals {
		copied := *goal
		goals = append(goals, &copied)
	}
	return goals, nil
}
