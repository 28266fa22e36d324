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

// DeadlineStore implements the store.DeadlineStore interface
// using a PostgreSQL database as the storage backend.
type DeadlineStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDeadlineStore creates a new PostgreSQL implementation of the
// DeadlineStore interface. If logger is nil, a default logger will be used.
func NewDeadlineStore(db store.DBTX, logger *slog.Logger) *DeadlineStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DeadlineStore{
		db:     db,
		logger: logger.With(slog.String("component", "deadline_store")),
	}
}

// Ensure DeadlineStore implements store.DeadlineStore interface
var _ store.DeadlineStore = (*DeadlineStore)(nil)

// Create implements store.DeadlineStore.Create.
func (s *DeadlineStore) Create(ctx context.Context, deadline *domain.Deadline) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deadline.Validate(); err != nil {
		log.Warn("deadline validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deadline_id", deadline.ID.String()))
		return err
	}

	query := `
		INSERT INTO deadlines (id, title, subject, date, type, importance, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		deadline.ID,
		deadline.Title,
		deadline.Subject,
		deadline.Date,
		deadline.Type,
		deadline.Importance,
		deadline.Notes,
	)

	if err != nil {
		log.Error("failed to create deadline",
			slog.String("error", err.Error()),
			slog.String("deadline_id", deadline.ID.String()))
		return mapConstraintError("deadline", err)
	}

	log.Info("deadline created successfully",
		slog.String("deadline_id", deadline.ID.String()),
		slog.String("type", string(deadline.Type)))
	return nil
}

// GetByID implements store.DeadlineStore.GetByID.
// Returns store.ErrDeadlineNotFound if the deadline does not exist.
func (s *DeadlineStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deadline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, subject, date, type, importance, notes
		FROM deadlines
		WHERE id = $1
	`

	deadline, err := scanDeadline(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deadline not found", slog.String("deadline_id", id.String()))
			return nil, store.ErrDeadlineNotFound
		}
		log.Error("failed to get deadline by ID",
			slog.String("error", err.Error()),
			slog.String("deadline_id", id.String()))
		return nil, err
	}

	return deadline, nil
}

// ListAll implements store.DeadlineStore.ListAll.
// Returns an empty slice when no deadlines exist.
func (s *DeadlineStore) ListAll(ctx context.Context) ([]*domain.Deadline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, subject, date, type, importance, notes
		FROM deadlines
		ORDER BY date
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query deadlines", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	deadlines := []*domain.Deadline{}
	for rows.Next() {
		deadline, err := scanDeadline(rows)
		if err != nil {
			log.Error("failed to scan deadline row", slog.String("error", err.Error()))
			return nil, err
		}
		deadlines = append(deadlines, deadline)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return deadlines, nil
}

func scanDeadline(row rowScanner) (*domain.Deadline, error) {
	var deadline domain.Deadline
	var deadlineType, importance string

	err := row.Scan(
		&deadline.ID,
		&deadline.Title,
		&deadline.Subject,
		&deadline.Date,
		&deadlineType,
		&importance,
		&deadline.Notes,
	)
	if err != nil {
		return nil, err
	}

	deadline.Type = domain.DeadlineType(deadlineType)
	deadline.Importance = domain.Priority(importance)
	return &deadline, nil
}
