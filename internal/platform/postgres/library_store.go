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

// LibraryItemStore implements the store.LibraryItemStore interface
// using a PostgreSQL database as the storage backend.
type LibraryItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewLibraryItemStore creates a new PostgreSQL implementation of the
// LibraryItemStore interface. If logger is nil, a default logger will be used.
func NewLibraryItemStore(db store.DBTX, logger *slog.Logger) *LibraryItemStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &LibraryItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "library_store")),
	}
}

// Ensure LibraryItemStore implements store.LibraryItemStore interface
var _ store.LibraryItemStore = (*LibraryItemStore)(nil)

// Create implements store.LibraryItemStore.Create.
func (s *LibraryItemStore) Create(ctx context.Context, item *domain.LibraryItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("library item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO library_items (id, type, title, subtitle, subject, created_at, updated_at, project_id, is_locked, is_pinned, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Type,
		item.Title,
		item.Subtitle,
		item.Subject,
		item.CreatedAt,
		nullableTime(item.UpdatedAt),
		nullableUUID(item.ProjectID),
		item.IsLocked,
		item.IsPinned,
		item.ThumbnailURL,
	)

	if err != nil {
		log.Error("failed to create library item",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return mapConstraintError("library item", err)
	}

	log.Info("library item created successfully",
		slog.String("item_id", item.ID.String()),
		slog.String("type", string(item.Type)))
	return nil
}

// GetByID implements store.LibraryItemStore.GetByID.
// Returns store.ErrLibraryItemNotFound if the item does not exist.
func (s *LibraryItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.LibraryItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, title, subtitle, subject, created_at, updated_at, project_id, is_locked, is_pinned, thumbnail_url
		FROM library_items
		WHERE id = $1
	`

	item, err := scanLibraryItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("library item not found", slog.String("item_id", id.String()))
			return nil, store.ErrLibraryItemNotFound
		}
		log.Error("failed to get library item by ID",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return nil, err
	}

	return item, nil
}

// ListAll implements store.LibraryItemStore.ListAll.
// Returns an empty slice when no items exist.
func (s *LibraryItemStore) ListAll(ctx context.Context) ([]*domain.LibraryItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, title, subtitle, subject, created_at, updated_at, project_id, is_locked, is_pinned, thumbnail_url
		FROM library_items
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query library items", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []*domain.LibraryItem{}
	for rows.Next() {
		item, err := scanLibraryItem(rows)
		if err != nil {
			log.Error("failed to scan library item row", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return items, nil
}

func scanLibraryItem(row rowScanner) (*domain.LibraryItem, error) {
	var item domain.LibraryItem
	var itemType string
	var updatedAt sql.NullTime
	var projectID uuid.NullUUID

	err := row.Scan(
		&item.ID,
		&itemType,
		&item.Title,
		&item.Subtitle,
		&item.Subject,
		&item.CreatedAt,
		&updatedAt,
		&projectID,
		&item.IsLocked,
		&item.IsPinned,
		&item.ThumbnailURL,
	)
	if err != nil {
		return nil, err
	}

	item.Type = domain.LibraryItemType(itemType)
	if updatedAt.Valid {
		t := updatedAt.Time
		item.UpdatedAt = &t
	}
	if projectID.Valid {
		id := projectID.UUID
		item.ProjectID = &id
	}
	return &item, nil
}
