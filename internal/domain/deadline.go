package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DeadlineType represents the kind of external obligation a deadline tracks.
type DeadlineType string

// Possible deadline type values
const (
	DeadlineTypeExam       DeadlineType = "exam"
	DeadlineTypeAssignment DeadlineType = "assignment"
	DeadlineTypeOther      DeadlineType = "other"
)

// Valid reports whether the deadline type is one of the allowed values.
func (t DeadlineType) Valid() bool {
	switch t {
	case DeadlineTypeExam, DeadlineTypeAssignment, DeadlineTypeOther:
		return true
	}
	return false
}

// Deadline-specific validation errors
var (
	// ErrDeadlineIDEmpty is returned when a deadline ID is empty or nil.
	ErrDeadlineIDEmpty = errors.New("deadline ID cannot be empty")

	// ErrDeadlineTitleEmpty is returned when a deadline's title is empty.
	ErrDeadlineTitleEmpty = errors.New("deadline title cannot be empty")

	// ErrDeadlineDateZero is returned when a deadline has no due instant.
	ErrDeadlineDateZero = errors.New("deadline date cannot be zero")
)

// Deadline represents a fixed-date external obligation such as an exam or
// assignment hand-in. Deadlines are immutable after creation; they drive
// coaching and auto-goal generation but are never edited by this core.
type Deadline struct {
	ID         uuid.UUID    `json:"id"`
	Title      string       `json:"title"`
	Subject    string       `json:"subject"`
	Date       time.Time    `json:"date"`
	Type       DeadlineType `json:"type"`
	Importance Priority     `json:"importance"`
	Notes      string       `json:"notes,omitempty"`
}

// NewDeadline creates a new Deadline with a fresh ID.
// An empty type defaults to other and an empty importance defaults to med.
// Returns an error if validation fails.
func NewDeadline(
	title, subject string,
	date time.Time,
	deadlineType DeadlineType,
	importance Priority,
	notes string,
) (*Deadline, error) {
	if deadlineType == "" {
		deadlineType = DeadlineTypeOther
	}
	if importance == "" {
		importance = PriorityMed
	}

	deadline := &Deadline{
		ID:         uuid.New(),
		Title:      title,
		Subject:    subject,
		Date:       date,
		Type:       deadlineType,
		Importance: importance,
		Notes:      notes,
	}

	if err := deadline.Validate(); err != nil {
		return nil, err
	}

	return deadline, nil
}

// Validate checks if the Deadline has valid data.
// Returns an error if any field fails validation.
func (d *Deadline) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeadlineIDEmpty
	}

	if d.Title == "" {
		return ErrDeadlineTitleEmpty
	}

	if d.Date.IsZero() {
		return ErrDeadlineDateZero
	}

	if !d.Type.Valid() {
		return ErrInvalidDeadlineType
	}

	if !d.Importance.Valid() {
		return ErrInvalidPriority
	}

	return nil
}
