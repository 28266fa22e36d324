package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
)

// GoalPatch describes a shallow merge into an existing goal. Nil fields are
// left untouched. DueAt uses a double pointer so a patch can distinguish
// "leave the due date alone" (nil) from "clear the due date" (*nil).
type GoalPatch struct {
	Title       *string
	Subject     *string
	DurationMin *int
	Priority    *domain.Priority
	Status      *domain.GoalStatus
	DueAt       **time.Time
	ProjectID   *uuid.UUID
}

// Apply merges the patch into the goal in place.
func (p GoalPatch) Apply(goal *domain.Goal) {
	if p.Title != nil {
		goal.Title = *p.Title
	}
	if p.Subject != nil {
		goal.Subject = *p.Subject
	}
	if p.DurationMin != nil {
		goal.DurationMin = *p.DurationMin
	}
	if p.Priority != nil {
		goal.Priority = *p.Priority
	}
	if p.Status != nil {
		goal.Status = *p.Status
	}
	if p.DueAt != nil {
		goal.DueAt = *p.DueAt
	}
	if p.ProjectID != nil {
		goal.ProjectID = p.ProjectID
	}
}

// GoalStore defines the interface for goal persistence.
type GoalStore interface {
	// Create saves a new goal to the store.
	// Returns validation errors if the goal data is invalid.
	Create(ctx context.Context, goal *domain.Goal) error

	// GetByID retrieves a goal by its unique ID.
	// Returns ErrGoalNotFound if the goal does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error)

	// Update applies a shallow patch to an existing goal and returns the
	// updated record. Returns ErrGoalNotFound if the goal does not exist.
	Update(ctx context.Context, id uuid.UUID, patch GoalPatch) (*domain.Goal, error)

	// ListAll retrieves every goal in the store. Filtering and sorting
	// policy belongs to the service layer, not the store.
	ListAll(ctx context.Context) ([]*domain.Goal, error)
}

// DeadlineStore defines the interface for deadline persistence.
// Deadlines are immutable after creation, so no update operation exists.
type DeadlineStore interface {
	// Create saves a new deadline to the store.
	// Returns validation errors if the deadline data is invalid.
	Create(ctx context.Context, deadline *domain.Deadline) error

	// GetByID retrieves a deadline by its unique ID.
	// Returns ErrDeadlineNotFound if the deadline does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deadline, error)

	// ListAll retrieves every deadline in the store.
	ListAll(ctx context.Context) ([]*domain.Deadline, error)
}

// ProjectStore defines the interface for project persistence.
type ProjectStore interface {
	// Create saves a new project to the store.
	// Returns validation errors if the project data is invalid.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project by its unique ID.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// AddGoalID adds a goal id to the project's goal id set. Adding an id
	// that is already present is a no-op (idempotent union).
	// Returns ErrProjectNotFound if the project does not exist.
	AddGoalID(ctx context.Context, projectID, goalID uuid.UUID) error

	// ListAll retrieves every project in the store.
	ListAll(ctx context.Context) ([]*domain.Project, error)
}

// LibraryItemStore defines the interface for library item persistence.
type LibraryItemStore interface {
	// Create saves a new library item to the store.
	// Returns validation errors if the item data is invalid.
	Create(ctx context.Context, item *domain.LibraryItem) error

	// GetByID retrieves a library item by its unique ID.
	// Returns ErrLibraryItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LibraryItem, error)

	// ListAll retrieves every library item in the store.
	ListAll(ctx context.Context) ([]*domain.LibraryItem, error)
}
