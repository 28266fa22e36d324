package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Project-specific validation errors
var (
	// ErrProjectIDEmpty is returned when a project ID is empty or nil.
	ErrProjectIDEmpty = errors.New("project ID cannot be empty")

	// ErrProjectNameEmpty is returned when a project's name is empty.
	ErrProjectNameEmpty = errors.New("project name cannot be empty")

	// ErrProjectProgressRange is returned when progress is outside 0-100.
	ErrProjectProgressRange = errors.New("project progress must be between 0 and 100")
)

// Project represents a named grouping of goals, deadlines and library items.
// Membership is tracked two ways: by the project's own id sets and by the
// back-reference on a goal or library item. Readers must honor the union.
type Project struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	SubjectTags    []string    `json:"subject_tags"`
	GoalIDs        []uuid.UUID `json:"goal_ids"`
	DeadlineIDs    []uuid.UUID `json:"deadline_ids"`
	LibraryItemIDs []uuid.UUID `json:"library_item_ids"`
	Progress       int         `json:"progress"`
}

// NewProject creates a new Project with a fresh ID, empty id sets and
// progress 0. Returns an error if validation fails.
func NewProject(name, description string, subjectTags []string) (*Project, error) {
	if subjectTags == nil {
		subjectTags = []string{}
	}

	project := &Project{
		ID:             uuid.New(),
		Name:           name,
		Description:    description,
		SubjectTags:    subjectTags,
		GoalIDs:        []uuid.UUID{},
		DeadlineIDs:    []uuid.UUID{},
		LibraryItemIDs: []uuid.UUID{},
		Progress:       0,
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
// Returns an error if any field fails validation.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrProjectIDEmpty
	}

	if p.Name == "" {
		return ErrProjectNameEmpty
	}

	if p.Progress < 0 || p.Progress > 100 {
		return ErrProjectProgressRange
	}

	return nil
}

// ContainsGoal reports whether the goal id is in the project's goal id set.
func (p *Project) ContainsGoal(id uuid.UUID) bool {
	return containsID(p.GoalIDs, id)
}

// ContainsDeadline reports whether the deadline id is in the project's
// deadline id set.
func (p *Project) ContainsDeadline(id uuid.UUID) bool {
	return containsID(p.DeadlineIDs, id)
}

// ContainsLibraryItem reports whether the library item id is in the
// project's library item id set.
func (p *Project) ContainsLibraryItem(id uuid.UUID) bool {
	return containsID(p.LibraryItemIDs, id)
}

// AddGoalID adds a goal id to the project's goal id set.
// Adding an id that is already present is a no-op.
func (p *Project) AddGoalID(id uuid.UUID) {
	if !containsID(p.GoalIDs, id) {
		p.GoalIDs = append(p.GoalIDs, id)
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
