package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/service"
	"github.com/studyloop/planner-api/internal/store"
)

// CreateGoalRequest is the request body for creating a goal.
// Status and priority are optional and default at the domain layer.
type CreateGoalRequest struct {
	Title       string   `json:"title"        validate:"required"`
	Subject     string   `json:"subject"`
	DurationMin int      `json:"duration_min" validate:"required,gt=0"`
	Priority    string   `json:"priority"     validate:"omitempty,oneof=low med high"`
	Status      string   `json:"status"       validate:"omitempty,oneof=todo doing done"`
	DueAt       *string  `json:"due_at"       validate:"omitempty"`
	ProjectID   *string  `json:"project_id"   validate:"omitempty,uuid"`
}

// ToInput converts the request into a service input, parsing the optional
// timestamp and project reference.
func (r CreateGoalRequest) ToInput() (service.CreateGoalInput, error) {
	input := service.CreateGoalInput{
		Title:       r.Title,
		Subject:     r.Subject,
		DurationMin: r.DurationMin,
		Priority:    domain.Priority(r.Priority),
		Status:      domain.GoalStatus(r.Status),
	}

	if r.DueAt != nil {
		due, err := parseTimestamp(*r.DueAt)
		if err != nil {
			return input, err
		}
		input.DueAt = &due
	}
	if r.ProjectID != nil {
		id, err := uuid.Parse(*r.ProjectID)
		if err != nil {
			return input, fmt.Errorf("%w: project_id", domain.ErrInvalidID)
		}
		input.ProjectID = &id
	}
	return input, nil
}

// UpdateGoalRequest is the request body for patching a goal. Absent fields
// are left untouched; an explicit empty due_at clears the due date.
type UpdateGoalRequest struct {
	Title       *string `json:"title"        validate:"omitempty,min=1"`
	Subject     *string `json:"subject"`
	DurationMin *int    `json:"duration_min" validate:"omitempty,gt=0"`
	Priority    *string `json:"priority"     validate:"omitempty,oneof=low med high"`
	Status      *string `json:"status"       validate:"omitempty,oneof=todo doing done"`
	DueAt       *string `json:"due_at"`
	ProjectID   *string `json:"project_id"   validate:"omitempty,uuid"`
}

// ToPatch converts the request into a store-level goal patch.
func (r UpdateGoalRequest) ToPatch() (store.GoalPatch, error) {
	patch := store.GoalPatch{
		Title:       r.Title,
		Subject:     r.Subject,
		DurationMin: r.DurationMin,
	}

	if r.Priority != nil {
		priority := domain.Priority(*r.Priority)
		patch.Priority = &priority
	}
	if r.Status != nil {
		status := domain.GoalStatus(*r.Status)
		patch.Status = &status
	}
	if r.DueAt != nil {
		if *r.DueAt == "" {
			var cleared *time.Time
			patch.DueAt = &cleared
		} else {
			due, err := parseTimestamp(*r.DueAt)
			if err != nil {
				return patch, err
			}
			duePtr := &due
			patch.DueAt = &duePtr
		}
	}
	if r.ProjectID != nil {
		id, err := uuid.Parse(*r.ProjectID)
		if err != nil {
			return patch, fmt.Errorf("%w: project_id", domain.ErrInvalidID)
		}
		patch.ProjectID = &id
	}
	return patch, nil
}

// CreateDeadlineRequest is the request body for creating a deadline.
type CreateDeadlineRequest struct {
	Title      string `json:"title"      validate:"required"`
	Subject    string `json:"subject"`
	Date       string `json:"date"       validate:"required"`
	Type       string `json:"type"       validate:"omitempty,oneof=exam assignment other"`
	Importance string `json:"importance" validate:"omitempty,oneof=low med high"`
	Notes      string `json:"notes"`
}

// ToInput converts the request into a service input.
func (r CreateDeadlineRequest) ToInput() (service.CreateDeadlineInput, error) {
	date, err := parseTimestamp(r.Date)
	if err != nil {
		return service.CreateDeadlineInput{}, err
	}
	return service.CreateDeadlineInput{
		Title:      r.Title,
		Subject:    r.Subject,
		Date:       date,
		Type:       domain.DeadlineType(r.Type),
		Importance: domain.Priority(r.Importance),
		Notes:      r.Notes,
	}, nil
}

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	SubjectTags []string `json:"subject_tags"`
}

// ToInput converts the request into a service input.
func (r CreateProjectRequest) ToInput() service.CreateProjectInput {
	return service.CreateProjectInput{
		Name:        r.Name,
		Description: r.Description,
		SubjectTags: r.SubjectTags,
	}
}

// ProjectDataResponse is the aggregate payload for a single project with
// its related records (union membership resolved by the planner).
type ProjectDataResponse struct {
	Project      *domain.Project       `json:"project"`
	Goals        []*domain.Goal        `json:"goals"`
	Deadlines    []*domain.Deadline    `json:"deadlines"`
	LibraryItems []*domain.LibraryItem `json:"library_items"`
}

// parseTimestamp accepts RFC3339 timestamps and bare dates; a bare date
// means midnight local time on that day.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: expected RFC3339 timestamp or YYYY-MM-DD date", domain.ErrValidation)
}
