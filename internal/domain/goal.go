package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// GoalStatus represents the work state of a goal.
type GoalStatus string

// Possible goal status values
const (
	GoalStatusTodo  GoalStatus = "todo"
	GoalStatusDoing GoalStatus = "doing"
	GoalStatusDone  GoalStatus = "done"
)

// Valid reports whether the status is one of the allowed values.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusTodo, GoalStatusDoing, GoalStatusDone:
		return true
	}
	return false
}

// Goal-specific validation errors
var (
	// ErrGoalIDEmpty is returned when a goal ID is empty or nil.
	ErrGoalIDEmpty = errors.New("goal ID cannot be empty")

	// ErrGoalTitleEmpty is returned when a goal's title is empty.
	ErrGoalTitleEmpty = errors.New("goal title cannot be empty")

	// ErrGoalDurationInvalid is returned when a goal's duration is not a
	// positive number of minutes.
	ErrGoalDurationInvalid = errors.New("goal duration must be positive")
)

// Goal represents a single actionable unit of study work with a duration,
// a priority and an optional due date. A done goal is never deleted; it is
// excluded from the active-work views instead.
type Goal struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	DurationMin int        `json:"duration_min"`
	Priority    Priority   `json:"priority"`
	Status      GoalStatus `json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewGoal creates a new Goal with a fresh ID and creation timestamp.
// An empty status defaults to todo and an empty priority defaults to med.
// Returns an error if validation fails.
func NewGoal(
	title, subject string,
	durationMin int,
	priority Priority,
	status GoalStatus,
	dueAt *time.Time,
	projectID *uuid.UUID,
) (*Goal, error) {
	if status == "" {
		status = GoalStatusTodo
	}
	if priority == "" {
		priority = PriorityMed
	}

	goal := &Goal{
		ID:          uuid.New(),
		Title:       title,
		Subject:     subject,
		DurationMin: durationMin,
		Priority:    priority,
		Status:      status,
		DueAt:       dueAt,
		ProjectID:   projectID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	return goal, nil
}

// Validate checks if the Goal has valid data.
// Returns an error if any field fails validation.
func (g *Goal) Validate() error {
	if g.ID == uuid.Nil {
		return ErrGoalIDEmpty
	}

	if g.Title == "" {
		return ErrGoalTitleEmpty
	}

	if g.DurationMin <= 0 {
		return ErrGoalDurationInvalid
	}

	if !g.Priority.Valid() {
		return ErrInvalidPriority
	}

	if !g.Status.Valid() {
		return ErrInvalidGoalStatus
	}

	return nil
}

// IsDone reports whether the goal has been completed.
func (g *Goal) IsDone() bool {
	return g.Status == GoalStatusDone
}
