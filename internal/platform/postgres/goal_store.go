package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/store"
)

// GoalStore implements the store.GoalStore interface
// using a PostgreSQL database as the storage backend.
type GoalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewGoalStore creates a new PostgreSQL implementation of the GoalStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewGoalStore(db store.DBTX, logger *slog.Logger) *GoalStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &GoalStore{
		db:     db,
		logger: logger.With(slog.String("component", "goal_store")),
	}
}

// Ensure GoalStore implements store.GoalStore interface
var _ store.GoalStore = (*GoalStore)(nil)

// Create implements store.GoalStore.Create.
// It saves a new goal to the database, handling domain validation.
func (s *GoalStore) Create(ctx context.Context, goal *domain.Goal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := goal.Validate(); err != nil {
		log.Warn("goal validation failed during create",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return err
	}

	query := `
		INSERT INTO goals (id, title, subject, duration_min, priority, status, due_at, project_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		goal.ID,
		goal.Title,
		goal.Subject,
		goal.DurationMin,
		goal.Priority,
		goal.Status,
		nullableTime(goal.DueAt),
		nullableUUID(goal.ProjectID),
		goal.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", goal.ID.String()))
		return mapConstraintError("goal", err)
	}

	log.Info("goal created successfully",
		slog.String("goal_id", goal.ID.String()),
		slog.String("status", string(goal.Status)))
	return nil
}

// GetByID implements store.GoalStore.GetByID.
// Returns store.ErrGoalNotFound if the goal does not exist.
func (s *GoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, subject, duration_min, priority, status, due_at, project_id, created_at
		FROM goals
		WHERE id = $1
	`

	goal, err := scanGoal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("goal not found", slog.String("goal_id", id.String()))
			return nil, store.ErrGoalNotFound
		}
		log.Error("failed to get goal by ID",
			slog.String("error", err.Error()),
			slog.String("goal_id", id.String()))
		return nil, err
	}

	return goal, nil
}

// Update implements store.GoalStore.Update.
// It reads the current row, applies the shallow patch and writes the full
// row back. Returns store.ErrGoalNotFound if the goal does not exist.
func (s *GoalStore) Update(
	ctx context.Context,
	id uuid.UUID,
	patch store.GoalPatch,
) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	goal, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(goal)
	if err := goal.Validate(); err != nil {
		log.Warn("goal validation failed during update",
			slog.String("error", err.Error()),
			slog.String("goal_id", id.String()))
		return nil, err
	}

	query := `
		UPDATE goals
		SET title = $1, subject = $2, duration_min = $3, priority = $4, status = $5, due_at = $6, project_id = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		goal.Title,
		goal.Subject,
		goal.DurationMin,
		goal.Priority,
		goal.Status,
		nullableTime(goal.DueAt),
		nullableUUID(goal.ProjectID),
		goal.ID,
	)
	if err != nil {
		log.Error("failed to update goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", id.String()))
		return nil, mapConstraintError("goal", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("goal_id", id.String()))
		return nil, err
	}

	if rowsAffected == 0 {
		log.Debug("goal not found for update", slog.String("goal_id", id.String()))
		return nil, store.ErrGoalNotFound
	}

	log.Info("goal updated successfully",
		slog.String("goal_id", id.String()),
		slog.String("status", string(goal.Status)))
	return goal, nil
}

// ListAll implements store.GoalStore.ListAll.
// Returns an empty slice when no goals exist.
func (s *GoalStore) ListAll(ctx context.Context) ([]*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, subject, duration_min, priority, status, due_at, project_id, created_at
		FROM goals
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query goals", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	goals := []*domain.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			log.Error("failed to scan goal row", slog.String("error", err.Error()))
			return nil, err
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return goals, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var goal domain.Goal
	var priority, status string
	var dueAt sql.NullTime
	var projectID uuid.NullUUID

	err := row.Scan(
		&goal.ID,
		&goal.Title,
		&goal.Subject,
		&goal.DurationMin,
		&priority,
		&status,
		&dueAt,
		&projectID,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	goal.Priority = domain.Priority(priority)
	goal.Status = domain.GoalStatus(status)
	if dueAt.Valid {
		t := dueAt.Time
		goal.DueAt = &t
	}
	if projectID.Valid {
		id := projectID.UUID
		goal.ProjectID = &id
	}
	return &goal, nil
}
