package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// LibraryItemType represents the kind of resource a library item holds.
type LibraryItemType string

// Possible library item type values
const (
	LibraryItemTypeDocument   LibraryItemType = "document"
	LibraryItemTypeFlashcards LibraryItemType = "flashcards"
	LibraryItemTypeQuiz       LibraryItemType = "quiz"
	LibraryItemTypeFolder     LibraryItemType = "folder"
	LibraryItemTypeGroup      LibraryItemType = "group"
	LibraryItemTypeProject    LibraryItemType = "project"
)

// Valid reports whether the library item type is one of the allowed values.
func (t LibraryItemType) Valid() bool {
	switch t {
	case LibraryItemTypeDocument, LibraryItemTypeFlashcards, LibraryItemTypeQuiz,
		LibraryItemTypeFolder, LibraryItemTypeGroup, LibraryItemTypeProject:
		return true
	}
	return false
}

// LibraryItem-specific validation errors
var (
	// ErrLibraryItemIDEmpty is returned when a library item ID is empty or nil.
	ErrLibraryItemIDEmpty = errors.New("library item ID cannot be empty")

	// ErrLibraryItemTitleEmpty is returned when a library item's title is empty.
	ErrLibraryItemTitleEmpty = errors.New("library item title cannot be empty")
)

// LibraryItem represents a reference resource (document, flashcard set,
// quiz, folder, group, or a project's own library entry), optionally linked
// to a project. The planning core reads items; authoring happens elsewhere.
type LibraryItem struct {
	ID           uuid.UUID       `json:"id"`
	Type         LibraryItemType `json:"type"`
	Title        string          `json:"title"`
	Subtitle     string          `json:"subtitle,omitempty"`
	Subject      string          `json:"subject,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
	ProjectID    *uuid.UUID      `json:"project_id,omitempty"`
	IsLocked     bool            `json:"is_locked,omitempty"`
	IsPinned     bool            `json:"is_pinned,omitempty"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
}

// NewLibraryItem creates a new LibraryItem with a fresh ID and creation
// timestamp. Returns an error if validation fails.
func NewLibraryItem(
	itemType LibraryItemType,
	title, subtitle, subject string,
	projectID *uuid.UUID,
) (*LibraryItem, error) {
	item := &LibraryItem{
		ID:        uuid.New(),
		Type:      itemType,
		Title:     title,
		Subtitle:  subtitle,
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
		ProjectID: projectID,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the LibraryItem has valid data.
// Returns an error if any field fails validation.
func (i *LibraryItem) Validate() error {
	if i.ID == uuid.Nil {
		return ErrLibraryItemIDEmpty
	}

	if i.Title == "" {
		return ErrLibraryItemTitleEmpty
	}

	if !i.Type.Valid() {
		return ErrInvalidLibraryItemType
	}

	return nil
}
