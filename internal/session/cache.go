// Package session holds the in-memory planning aggregate the presentation
// layer reads. It merges repository fetches into one snapshot, seeds the
// library list from a durable snapshot for instant availability, and keeps
// coach tips current after every mutation.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/service"
	"github.com/studyloop/planner-api/internal/service/coach"
	"github.com/studyloop/planner-api/internal/store"
	"github.com/studyloop/planner-api/internal/timeutil"
)

// LibrarySnapshotKey is the fixed key under which the serialized library
// list is persisted. The value is a JSON array of library items; the
// encoding is internal to this package, not a compatibility contract.
const LibrarySnapshotKey = "planner:library:snapshot"

// Cache is the read-through planning aggregate. All reads are served from
// the in-memory snapshot; mutations go through the planner service and
// merge the single affected record back in rather than re-fetching the
// full dataset.
type Cache struct {
	planner   service.PlannerService
	snapshots store.SnapshotStore
	coach     *coach.Engine
	clock     timeutil.Clock
	logger    *slog.Logger

	mu          sync.RWMutex
	initialized bool
	goals       map[uuid.UUID]*domain.Goal
	deadlines   []*domain.Deadline
	projects    []*domain.Project
	library     []*domain.LibraryItem
	tips        []domain.CoachTip

	// Hours since the consumer last recorded study activity. Feeds the
	// coach's low-activity trigger; defaults to the coach package default
	// until the consumer reports a fresher signal.
	recentActivityHours float64
}

// NewCache creates a planning session cache.
// It returns an error if the planner, snapshot store or coach engine is nil.
// A nil clock defaults to the real clock; a nil logger to the default logger.
func NewCache(
	planner service.PlannerService,
	snapshots store.SnapshotStore,
	engine *coach.Engine,
	clock timeutil.Clock,
	logger *slog.Logger,
) (*Cache, error) {
	if planner == nil {
		return nil, domain.NewValidationError("planner", "cannot be nil", domain.ErrValidation)
	}
	if snapshots == nil {
		return nil, domain.NewValidationError("snapshots", "cannot be nil", domain.ErrValidation)
	}
	if engine == nil {
		return nil, domain.NewValidationError("engine", "cannot be nil", domain.ErrValidation)
	}

	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		planner:             planner,
		snapshots:           snapshots,
		coach:               engine,
		clock:               clock,
		logger:              logger.With(slog.String("component", "session_cache")),
		goals:               make(map[uuid.UUID]*domain.Goal),
		deadlines:           []*domain.Deadline{},
		projects:            []*domain.Project{},
		library:             []*domain.LibraryItem{},
		tips:                []domain.CoachTip{},
		recentActivityHours: coach.DefaultRecentActivityHours,
	}, nil
}

// LoadAll populates the cache from the planner service. The initial fetches
// run concurrently and callers never observe a partial batch: the snapshot
// swaps in atomically once everything has settled. A failed fetch is
// absorbed: the affected collection stays empty and the cache still marks
// itself initialized so the consumer can retry by calling LoadAll again.
func (c *Cache) LoadAll(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var (
		goals     map[uuid.UUID]*domain.Goal
		deadlines []*domain.Deadline
		projects  []*domain.Project
		library   []*domain.LibraryItem
	)

	g, gctx := errgroup.WithContext(ctx)

	var goalMu sync.Mutex
	goals = make(map[uuid.UUID]*domain.Goal)
	for _, filter := range []service.GoalFilter{service.FilterToday, service.FilterWeek, service.FilterDone} {
		g.Go(func() error {
			c.fetchGoals(gctx, log, filter, &goalMu, goals)
			return nil
		})
	}
	g.Go(func() error {
		deadlines = c.fetchDeadlines(gctx, log)
		return nil
	})
	g.Go(func() error {
		projects = c.fetchProjects(gctx, log)
		return nil
	})
	g.Go(func() error {
		library = c.fetchLibrary(gctx, log)
		return nil
	})

	// Fetch funcs absorb their own errors, so Wait cannot fail.
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.goals = goals
	c.deadlines = deadlines
	c.projects = projects
	c.library = library
	c.recomputeTipsLocked()
	c.initialized = true

	log.Info("session cache loaded",
		slog.Int("goals", len(c.goals)),
		slog.Int("deadlines", len(c.deadlines)),
		slog.Int("projects", len(c.projects)),
		slog.Int("library_items", len(c.library)))
}

// fetchGoals reads one filter view and folds it into the shared merge map,
// deduplicating by id. The views intentionally overlap; all three read the
// same store, so last-write-wins across the merge is irrelevant.
func (c *Cache) fetchGoals(
	ctx context.Context,
	log *slog.Logger,
	filter service.GoalFilter,
	mu *sync.Mutex,
	merged map[uuid.UUID]*domain.Goal,
) {
	goals, err := c.planner.ListGoals(ctx, filter)
	if err != nil {
		log.Warn("failed to fetch goals for session cache",
			slog.String("error", err.Error()),
			slog.String("filter", string(filter)))
		return
	}

	mu.Lock()
	defer mu.Unlock()
	for _, goal := range goals {
		merged[goal.ID] = goal
	}
}

func (c *Cache) fetchDeadlines(ctx context.Context, log *slog.Logger) []*domain.Deadline {
	deadlines, err := c.planner.ListDeadlines(ctx)
	if err != nil {
		log.Warn("failed to fetch deadlines for session cache",
			slog.String("error", err.Error()))
		return []*domain.Deadline{}
	}
	return deadlines
}

func (c *Cache) fetchProjects(ctx context.Context, log *slog.Logger) []*domain.Project {
	projects, err := c.planner.ListProjects(ctx)
	if err != nil {
		log.Warn("failed to fetch projects for session cache",
			slog.String("error", err.Error()))
		return []*domain.Project{}
	}
	return projects
}

// fetchLibrary seeds from the durable snapshot when one exists, then
// replaces the seed with fresh data and re-persists it. The persisted copy
// is a fast-path seed and a refresh target, never a substitute for the
// source of truth: the seed only survives when the fresh fetch fails.
func (c *Cache) fetchLibrary(ctx context.Context, log *slog.Logger) []*domain.LibraryItem {
	seed := c.readLibrarySnapshot(ctx, log)

	items, err := c.planner.ListLibraryItems(ctx)
	if err != nil {
		log.Warn("failed to fetch library items, serving persisted snapshot",
			slog.String("error", err.Error()),
			slog.Int("snapshot_items", len(seed)))
		return seed
	}

	c.writeLibrarySnapshot(ctx, log, items)
	return items
}

func (c *Cache) readLibrarySnapshot(ctx context.Context, log *slog.Logger) []*domain.LibraryItem {
	raw, err := c.snapshots.Get(ctx, LibrarySnapshotKey)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Warn("failed to read library snapshot", slog.String("error", err.Error()))
		}
		return []*domain.LibraryItem{}
	}

	var items []*domain.LibraryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// A malformed snapshot is treated as absent.
		log.Warn("discarding malformed library snapshot", slog.String("error", err.Error()))
		return []*domain.LibraryItem{}
	}
	if items == nil {
		items = []*domain.LibraryItem{}
	}
	return items
}

// writeLibrarySnapshot persists the library list best-effort. A failed
// persist never blocks serving the fresh data.
func (c *Cache) writeLibrarySnapshot(ctx context.Context, log *slog.Logger, items []*domain.LibraryItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		log.Warn("failed to encode library snapshot", slog.String("error", err.Error()))
		return
	}
	if err := c.snapshots.Set(ctx, LibrarySnapshotKey, string(raw)); err != nil {
		log.Warn("failed to persist library snapshot", slog.String("error", err.Error()))
	}
}

// Initialized reports whether LoadAll has completed at least once.
func (c *Cache) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// SetRecentActivityHours records a fresher activity signal for the coach's
// low-activity trigger and recomputes tips against it.
func (c *Cache) SetRecentActivityHours(hours float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recentActivityHours = hours
	c.recomputeTipsLocked()
}

// Goals returns the cached goals in the given filter view, sorted with the
// same policy the planner uses.
func (c *Cache) Goals(filter service.GoalFilter) []*domain.Goal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make([]*domain.Goal, 0, len(c.goals))
	for _, goal := range c.goals {
		all = append(all, goal)
	}

	matched := service.FilterGoals(all, filter, c.clock)
	service.SortGoals(matched, filter, c.clock)
	return matched
}

// Deadlines returns the cached deadlines sorted ascending by date.
func (c *Cache) Deadlines() []*domain.Deadline {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.Deadline{}, c.deadlines...)
}

// Projects returns the cached projects sorted descending by progress.
func (c *Cache) Projects() []*domain.Project {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.Project{}, c.projects...)
}

// Library returns the cached library items, newest first.
func (c *Cache) Library() []*domain.LibraryItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domain.LibraryItem{}, c.library...)
}

// Tips returns the current coach tips.
func (c *Cache) Tips() []domain.CoachTip {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.CoachTip{}, c.tips...)
}

// AddGoal creates a goal through the planner and merges it into the cache.
func (c *Cache) AddGoal(ctx context.Context, input service.CreateGoalInput) (*domain.Goal, error) {
	goal, err := c.planner.CreateGoal(ctx, input)
	if err != nil {
		return nil, err
	}
	c.mergeGoal(goal)
	return goal, nil
}

// UpdateGoal patches a goal through the planner and merges the result into
// the cache. A nil result means the goal is unknown; the cache is left
// untouched in that case.
func (c *Cache) UpdateGoal(
	ctx context.Context,
	id uuid.UUID,
	patch store.GoalPatch,
) (*domain.Goal, error) {
	goal, err := c.planner.UpdateGoal(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.mergeGoal(goal)
	return goal, nil
}

// CompleteGoal marks a goal done through the planner. A nil result means
// the goal is unknown; the cache is left untouched in that case.
func (c *Cache) CompleteGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	goal, err := c.planner.CompleteGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mergeGoal(goal)
	return goal, nil
}

// PostponeGoal pushes a goal's due date out one day through the planner.
func (c *Cache) PostponeGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	goal, err := c.planner.PostponeGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mergeGoal(goal)
	return goal, nil
}

// PrioritizeGoal raises a goal's priority through the planner.
func (c *Cache) PrioritizeGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	goal, err := c.planner.PrioritizeGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mergeGoal(goal)
	return goal, nil
}

// AddDeadline creates a deadline through the planner and merges it into the
// cache, keeping the deadline list sorted by date.
func (c *Cache) AddDeadline(
	ctx context.Context,
	input service.CreateDeadlineInput,
) (*domain.Deadline, error) {
	deadline, err := c.planner.CreateDeadline(ctx, input)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadlines = append(c.deadlines, deadline)
	sort.SliceStable(c.deadlines, func(i, j int) bool {
		return c.deadlines[i].Date.Before(c.deadlines[j].Date)
	})
	c.recomputeTipsLocked()
	return deadline, nil
}

// PlanDeadline expands a deadline into its template goals through the
// planner and merges them into the cache. An unknown deadline produces an
// empty slice and leaves the cache unchanged.
func (c *Cache) PlanDeadline(ctx context.Context, deadlineID uuid.UUID) ([]*domain.Goal, error) {
	goals, err := c.planner.AutoGoalsFromDeadline(ctx, deadlineID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return goals, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, goal := range goals {
		c.goals[goal.ID] = goal
	}
	c.recomputeTipsLocked()
	return goals, nil
}

// mergeGoal folds a single mutated goal into the cache and refreshes tips.
// A nil goal (unknown id at the planner) is skipped entirely.
func (c *Cache) mergeGoal(goal *domain.Goal) {
	if goal == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.goals[goal.ID] = goal
	c.recomputeTipsLocked()
}

// recomputeTipsLocked re-runs the coach over the current in-memory state so
// suggestions never go stale relative to the latest known state.
// Callers must hold the write lock.
func (c *Cache) recomputeTipsLocked() {
	all := make([]*domain.Goal, 0, len(c.goals))
	for _, goal := range c.goals {
		all = append(all, goal)
	}
	c.tips = c.coach.Tips(all, c.deadlines, c.recentActivityHours)
}
