package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/studyloop/planner-api/internal/config"
	"github.com/studyloop/planner-api/internal/platform/memory"
	"github.com/studyloop/planner-api/internal/platform/postgres"
	"github.com/studyloop/planner-api/internal/platform/rediscache"
	"github.com/studyloop/planner-api/internal/service"
	"github.com/studyloop/planner-api/internal/service/coach"
	"github.com/studyloop/planner-api/internal/session"
	"github.com/studyloop/planner-api/internal/store"
	"github.com/studyloop/planner-api/internal/timeutil"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	goalStore     store.GoalStore
	deadlineStore store.DeadlineStore
	projectStore  store.ProjectStore
	libraryStore  store.LibraryItemStore
	snapshotStore store.SnapshotStore

	planner service.PlannerService
	coach   *coach.Engine
	cache   *session.Cache

	// Set when the snapshot store is redis-backed; closed on shutdown.
	redisStore *rediscache.SnapshotStore
}

// newApplication creates a new application instance with all dependencies
// initialized, including the session cache warmed with an initial load.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.goalStore = postgres.NewGoalStore(db, logger)
	app.deadlineStore = postgres.NewDeadlineStore(db, logger)
	app.projectStore = postgres.NewProjectStore(db, logger)
	app.libraryStore = postgres.NewLibraryItemStore(db, logger)

	clock := timeutil.RealClock{}

	var err error
	app.planner, err = service.NewPlannerService(
		app.goalStore,
		app.deadlineStore,
		app.projectStore,
		app.libraryStore,
		clock,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create planner service: %w", err)
	}

	app.coach = coach.NewEngine(clock, logger)

	app.snapshotStore, err = setupSnapshotStore(app, cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up snapshot store: %w", err)
	}

	app.cache, err = session.NewCache(app.planner, app.snapshotStore, app.coach, clock, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	// Warm the cache so the first request sees a populated session.
	app.cache.LoadAll(ctx)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupSnapshotStore picks the snapshot backend: redis when an address is
// configured, an in-memory store otherwise. A redis that cannot be reached
// at startup is an error rather than a silent fallback.
func setupSnapshotStore(
	app *application,
	cfg config.CacheConfig,
	logger *slog.Logger,
) (store.SnapshotStore, error) {
	if cfg.RedisAddr == "" {
		logger.Info("No redis address configured, using in-memory snapshot store")
		return memory.NewSnapshotStore(), nil
	}

	redisStore, err := rediscache.NewSnapshotStore(cfg.RedisAddr, cfg.RedisPassword, logger)
	if err != nil {
		return nil, err
	}
	app.redisStore = redisStore
	logger.Info("Redis snapshot store initialized", "addr", cfg.RedisAddr)
	return redisStore, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redisStore != nil {
		if err := app.redisStore.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
