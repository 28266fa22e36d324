package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/store"
)

// ProjectStore implements the store.ProjectStore interface
// using a PostgreSQL database as the storage backend.
// Id sets and subject tags are stored as JSONB columns.
type ProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewProjectStore creates a new PostgreSQL implementation of the
// ProjectStore interface. If logger is nil, a default logger will be used.
func NewProjectStore(db store.DBTX, logger *slog.Logger) *ProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

// Ensure ProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*ProjectStore)(nil)

// Create implements store.ProjectStore.Create.
func (s *ProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during create",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	tags, goalIDs, deadlineIDs, itemIDs, err := marshalProjectSets(project)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (id, name, description, subject_tags, goal_ids, deadline_ids, library_item_ids, progress)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		project.ID,
		project.Name,
		project.Description,
		tags,
		goalIDs,
		deadlineIDs,
		itemIDs,
		project.Progress,
	)

	if err != nil {
		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return mapConstraintError("project", err)
	}

	log.Info("project created successfully",
		slog.String("project_id", project.ID.String()),
		slog.String("name", project.Name))
	return nil
}

// GetByID implements store.ProjectStore.GetByID.
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *ProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, subject_tags, goal_ids, deadline_ids, library_item_ids, progress
		FROM projects
		WHERE id = $1
	`

	project, err := scanProject(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found", slog.String("project_id", id.String()))
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project by ID",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, err
	}

	return project, nil
}

// AddGoalID implements store.ProjectStore.AddGoalID.
// The union is computed in application code after a read; the planning core
// serializes mutations, so a read-modify-write is sufficient here.
func (s *ProjectStore) AddGoalID(ctx context.Context, projectID, goalID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	if project.ContainsGoal(goalID) {
		return nil
	}
	project.AddGoalID(goalID)

	goalIDs, err := json.Marshal(project.GoalIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal goal ids: %w", err)
	}

	query := `
		UPDATE projects
		SET goal_ids = $1
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, goalIDs, projectID)
	if err != nil {
		log.Error("failed to add goal to project",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()),
			slog.String("goal_id", goalID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrProjectNotFound
	}

	log.Debug("goal added to project",
		slog.String("project_id", projectID.String()),
		slog.String("goal_id", goalID.String()))
	return nil
}

// ListAll implements store.ProjectStore.ListAll.
// Returns an empty slice when no projects exist.
func (s *ProjectStore) ListAll(ctx context.Context) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, subject_tags, goal_ids, deadline_ids, library_item_ids, progress
		FROM projects
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query projects", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	projects := []*domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			log.Error("failed to scan project row", slog.String("error", err.Error()))
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return projects, nil
}

func marshalProjectSets(project *domain.Project) (tags, goalIDs, deadlineIDs, itemIDs []byte, err error) {
	if tags, err = json.Marshal(project.SubjectTags); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal subject tags: %w", err)
	}
	if goalIDs, err = json.Marshal(project.GoalIDs); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal goal ids: %w", err)
	}
	if deadlineIDs, err = json.Marshal(project.DeadlineIDs); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal deadline ids: %w", err)
	}
	if itemIDs, err = json.Marshal(project.LibraryItemIDs); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal library item ids: %w", err)
	}
	return tags, goalIDs, deadlineIDs, itemIDs, nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var project domain.Project
	var tags, goalIDs, deadlineIDs, itemIDs []byte

	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&tags,
		&goalIDs,
		&deadlineIDs,
		&itemIDs,
		&project.Progress,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &project.SubjectTags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subject tags: %w", err)
	}
	if err := json.Unmarshal(goalIDs, &project.GoalIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal goal ids: %w", err)
	}
	if err := json.Unmarshal(deadlineIDs, &project.DeadlineIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deadline ids: %w", err)
	}
	if err := json.Unmarshal(itemIDs, &project.LibraryItemIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal library item ids: %w", err)
	}

	return &project, nil
}
