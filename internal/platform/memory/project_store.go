package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/store"
)

// ProjectStore implements store.ProjectStore with an RWMutex-guarded map.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*domain.Project
}

// NewProjectStore creates an empty in-memory project store.
func NewProjectStore() *ProjectStore {
	return &ProjectStore{
		projects: make(map[uuid.UUID]*domain.Project),
	}
}

// Ensure ProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*ProjectStore)(nil)

// Create implements store.ProjectStore.Create.
func (s *ProjectStore) Create(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyProject(project)
	s.projects[project.ID] = stored
	return nil
}

// GetByID implements store.ProjectStore.GetByID.
func (s *ProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, store.ErrProjectNotFound
	}

	return copyProject(project), nil
}

// AddGoalID implements store.ProjectStore.AddGoalID.
func (s *ProjectStore) AddGoalID(ctx context.Context, projectID, goalID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[projectID]
	if !ok {
		return store.ErrProjectNotFound
	}

	project.AddGoalID(goalID)
	return nil
}

// ListAll implements store.ProjectStore.ListAll.
func (s *ProjectStore) ListAll(ctx context.Context) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]*domain.Project, 0, len(s.projects))
	for _, project := range s.projects {
		projects = append(projects, copyProject(project))
	}
	return projects, nil
}

// copyProject deep-copies a project so callers cannot mutate stored state
// through the returned slices.
func copyProject(p *domain.Project) *domain.Project {
	copied := *p
	copied.SubjectTags = append([]string{}, p.SubjectTags...)
	copied.GoalIDs = append([]uuid.UUID{}, p.GoalIDs...)
	copied.DeadlineIDs = append([]uuid.UUID{}, p.DeadlineIDs...)
	copied.LibraryItemIDs = append([]uuid.UUID{}, p.LibraryItemIDs...)
	return &copied
}
