package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/store"
	"github.com/studyloop/planner-api/internal/timeutil"
)

// CreateGoalInput carries the caller-supplied fields for a new goal.
// Status defaults to todo and priority to med when left empty.
type CreateGoalInput struct {
	Title       string
	Subject     string
	DurationMin int
	Priority    domain.Priority
	Status      domain.GoalStatus
	DueAt       *time.Time
	ProjectID   *uuid.UUID
}

// CreateDeadlineInput carries the caller-supplied fields for a new deadline.
type CreateDeadlineInput struct {
	Title      string
	Subject    string
	Date       time.Time
	Type       domain.DeadlineType
	Importance domain.Priority
	Notes      string
}

// CreateProjectInput carries the caller-supplied fields for a new project.
// Id sets start empty and progress starts at 0.
type CreateProjectInput struct {
	Name        string
	Description string
	SubjectTags []string
}

// ProjectData aggregates a project with its related records. Related goals
// and library items are the union of explicit id-set membership and the
// record's own project back-reference; related deadlines are id-set
// membership only (deadlines carry no back-reference).
type ProjectData struct {
	Project      *domain.Project
	Goals        []*domain.Goal
	Deadlines    []*domain.Deadline
	LibraryItems []*domain.LibraryItem
}

// PlannerService provides all planning CRUD and derived-list operations.
//
// Update-class operations on an unknown id are non-fatal: they return a nil
// record and a nil error. Callers that need to distinguish "not found" must
// check the returned record.
type PlannerService interface {
	// ListGoals returns the goals in the given filter view, sorted for display.
	ListGoals(ctx context.Context, filter GoalFilter) ([]*domain.Goal, error)

	// CreateGoal creates a goal and, when it references a project, adds the
	// goal's id to that project's goal id set.
	CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error)

	// UpdateGoal shallow-merges the patch into the goal.
	UpdateGoal(ctx context.Context, id uuid.UUID, patch store.GoalPatch) (*domain.Goal, error)

	// CompleteGoal marks the goal done.
	CompleteGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error)

	// PostponeGoal pushes the goal's due date out by one calendar day
	// (from now when it has none) and resets its status to todo.
	PostponeGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error)

	// PrioritizeGoal raises the goal's priority to high.
	PrioritizeGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error)

	// ListDeadlines returns all deadlines sorted ascending by date.
	ListDeadlines(ctx context.Context) ([]*domain.Deadline, error)

	// CreateDeadline creates a deadline. Deadlines are immutable afterwards.
	CreateDeadline(ctx context.Context, input CreateDeadlineInput) (*domain.Deadline, error)

	// ListProjects returns all projects sorted descending by progress.
	ListProjects(ctx context.Context) ([]*domain.Project, error)

	// CreateProject creates a project with empty id sets and progress 0.
	CreateProject(ctx context.Context, input CreateProjectInput) (*domain.Project, error)

	// GetProjectData returns the project with its related records, or a nil
	// result when the project does not exist.
	GetProjectData(ctx context.Context, id uuid.UUID) (*ProjectData, error)

	// ListLibraryItems returns all library items, newest first.
	ListLibraryItems(ctx context.Context) ([]*domain.LibraryItem, error)

	// SearchLibraryItems returns the items whose title, subtitle, subject or
	// type contains the query, case-insensitively, in the same order as
	// ListLibraryItems. An empty or whitespace query returns everything.
	SearchLibraryItems(ctx context.Context, query string) ([]*domain.LibraryItem, error)

	// AutoGoalsFromDeadline expands a deadline into its fixed template of
	// three goals. Returns an empty slice when the deadline does not exist.
	AutoGoalsFromDeadline(ctx context.Context, deadlineID uuid.UUID) ([]*domain.Goal, error)
}

// plannerImpl implements the PlannerService interface.
type plannerImpl struct {
	goals     store.GoalStore
	deadlines store.DeadlineStore
	projects  store.ProjectStore
	library   store.LibraryItemStore
	clock     timeutil.Clock
	logger    *slog.Logger
}

// NewPlannerService creates a new PlannerService.
// It returns an error if any of the required store dependencies are nil.
// A nil clock defaults to the real clock; a nil logger to the default logger.
func NewPlannerService(
	goals store.GoalStore,
	deadlines store.DeadlineStore,
	projects store.ProjectStore,
	library store.LibraryItemStore,
	clock timeutil.Clock,
	logger *slog.Logger,
) (PlannerService, error) {
	if goals == nil {
		return nil, domain.NewValidationError("goals", "cannot be nil", domain.ErrValidation)
	}
	if deadlines == nil {
		return nil, domain.NewValidationError("deadlines", "cannot be nil", domain.ErrValidation)
	}
	if projects == nil {
		return nil, domain.NewValidationError("projects", "cannot be nil", domain.ErrValidation)
	}
	if library == nil {
		return nil, domain.NewValidationError("library", "cannot be nil", domain.ErrValidation)
	}

	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &plannerImpl{
		goals:     goals,
		deadlines: deadlines,
		projects:  projects,
		library:   library,
		clock:     clock,
		logger:    logger.With(slog.String("component", "planner_service")),
	}, nil
}

// ListGoals implements PlannerService.ListGoals.
func (s *plannerImpl) ListGoals(ctx context.Context, filter GoalFilter) ([]*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !filter.Valid() {
		return nil, NewPlannerError("list_goals", "unknown filter "+string(filter), ErrInvalidFilter)
	}

	all, err := s.goals.ListAll(ctx)
	if err != nil {
		log.Error("failed to list goals",
			slog.String("error", err.Error()),
			slog.String("filter", string(filter)))
		return nil, NewPlannerError("list_goals", "failed to read goals", err)
	}

	matched := FilterGoals(all, filter, s.clock)
	SortGoals(matched, filter, s.clock)

	log.Debug("listed goals",
		slog.String("filter", string(filter)),
		slog.Int("count", len(matched)))
	return matched, nil
}

// CreateGoal implements PlannerService.CreateGoal.
func (s *plannerImpl) CreateGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	goal, err := domain.NewGoal(
		input.Title,
		input.Subject,
		input.DurationMin,
		input.Priority,
		input.Status,
		input.DueAt,
		input.ProjectID,
	)
	if err != nil {
		return nil, NewPlannerError("create_goal", "invalid goal data", err)
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		log.Error("failed to create goal", slog.String("error", err.Error()))
		return nil, NewPlannerError("create_goal", "failed to save goal", err)
	}

	// Keep the project's goal id set a superset of its back-referencing
	// goals. An unknown project reference is non-fatal; the back-reference
	// alone still makes the goal visible under the project.
	if goal.ProjectID != nil {
		if err := s.projects.AddGoalID(ctx, *goal.ProjectID, goal.ID); err != nil {
			if errors.Is(err, store.ErrProjectNotFound) {
				log.Warn("goal references unknown project",
					slog.String("goal_id", goal.ID.String()),
					slog.String("project_id", goal.ProjectID.String()))
			} else {
				log.Error("failed to add goal to project",
					slog.String("error", err.Error()),
					slog.String("goal_id", goal.ID.String()))
				return nil, NewPlannerError("create_goal", "failed to update project membership", err)
			}
		}
	}

	return goal, nil
}

// UpdateGoal implements PlannerService.UpdateGoal.
func (s *plannerImpl) UpdateGoal(
	ctx context.Context,
	id uuid.UUID,
	patch store.GoalPatch,
) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	goal, err := s.goals.Update(ctx, id, patch)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("update on unknown goal is a no-op", slog.String("goal_id", id.String()))
			return nil, nil
		}
		log.Error("failed to update goal",
			slog.String("error", err.Error()),
			slog.String("goal_id", id.String()))
		return nil, NewPlannerError("update_goal", "failed to update goal", err)
	}

	return goal, nil
}

// CompleteGoal implements PlannerService.CompleteGoal.
func (s *plannerImpl) CompleteGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	done := domain.GoalStatusDone
	return s.UpdateGoal(ctx, id, store.GoalPatch{Status: &done})
}

// PostponeGoal implements PlannerService.PostponeGoal.
// The new due date is one calendar day after the existing one, or one day
// from now when the goal is undated. Status resets to todo so a stalled
// "doing" goal becomes actionable again.
func (s *plannerImpl) PostponeGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	goal, err := s.goals.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("postpone on unknown goal is a no-op", slog.String("goal_id", id.String()))
			return nil, nil
		}
		return nil, NewPlannerError("postpone_goal", "failed to read goal", err)
	}

	base := s.clock.Now().UTC()
	if goal.DueAt != nil {
		base = *goal.DueAt
	}
	newDue := base.AddDate(0, 0, 1)

	todo := domain.GoalStatusTodo
	duePtr := &newDue
	return s.UpdateGoal(ctx, id, store.GoalPatch{
		Status: &todo,
		DueAt:  &duePtr,
	})
}

// PrioritizeGoal implements PlannerService.PrioritizeGoal.
func (s *plannerImpl) PrioritizeGoal(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	high := domain.PriorityHigh
	return s.UpdateGoal(ctx, id, store.GoalPatch{Priority: &high})
}

// ListDeadlines implements PlannerService.ListDeadlines.
func (s *plannerImpl) ListDeadlines(ctx context.Context) ([]*domain.Deadline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deadlines, err := s.deadlines.ListAll(ctx)
	if err != nil {
		log.Error("failed to list deadlines", slog.String("error", err.Error()))
		return nil, NewPlannerError("list_deadlines", "failed to read deadlines", err)
	}

	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].Date.Before(deadlines[j].Date)
	})
	return deadlines, nil
}

// CreateDeadline implements PlannerService.CreateDeadline.
func (s *plannerImpl) CreateDeadline(
	ctx context.Context,
	input CreateDeadlineInput,
) (*domain.Deadline, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deadline, err := domain.NewDeadline(
		input.Title,
		input.Subject,
		input.Date,
		input.Type,
		input.Importance,
		input.Notes,
	)
	if err != nil {
		return nil, NewPlannerError("create_deadline", "invalid deadline data", err)
	}

	if err := s.deadlines.Create(ctx, deadline); err != nil {
		log.Error("failed to create deadline", slog.String("error", err.Error()))
		return nil, NewPlannerError("create_deadline", "failed to save deadline", err)
	}

	return deadline, nil
}

// ListProjects implements PlannerService.ListProjects.
func (s *plannerImpl) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		log.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, NewPlannerError("list_projects", "failed to read projects", err)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Progress > projects[j].Progress
	})
	return projects, nil
}

// CreateProject implements PlannerService.CreateProject.
func (s *plannerImpl) CreateProject(
	ctx context.Context,
	input CreateProjectInput,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := domain.NewProject(input.Name, input.Description, input.SubjectTags)
	if err != nil {
		return nil, NewPlannerError("create_project", "invalid project data", err)
	}

	if err := s.projects.Create(ctx, project); err != nil {
		log.Error("failed to create project", slog.String("error", err.Error()))
		return nil, NewPlannerError("create_project", "failed to save project", err)
	}

	return project, nil
}

// GetProjectData implements PlannerService.GetProjectData.
func (s *plannerImpl) GetProjectData(ctx context.Context, id uuid.UUID) (*ProjectData, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("project not found", slog.String("project_id", id.String()))
			return nil, nil
		}
		return nil, NewPlannerError("get_project", "failed to read project", err)
	}

	allGoals, err := s.goals.ListAll(ctx)
	if err != nil {
		return nil, NewPlannerError("get_project", "failed to read goals", err)
	}
	allDeadlines, err := s.deadlines.ListAll(ctx)
	if err != nil {
		return nil, NewPlannerError("get_project", "failed to read deadlines", err)
	}
	allItems, err := s.library.ListAll(ctx)
	if err != nil {
		return nil, NewPlannerError("get_project", "failed to read library items", err)
	}

	data := &ProjectData{
		Project:      project,
		Goals:        []*domain.Goal{},
		Deadlines:    []*domain.Deadline{},
		LibraryItems: []*domain.LibraryItem{},
	}

	for _, goal := range allGoals {
		backRef := goal.ProjectID != nil && *goal.ProjectID == project.ID
		if backRef || project.ContainsGoal(goal.ID) {
			data.Goals = append(data.Goals, goal)
		}
	}
	for _, deadline := range allDeadlines {
		if project.ContainsDeadline(deadline.ID) {
			data.Deadlines = append(data.Deadlines, deadline)
		}
	}
	for _, item := range allItems {
		backRef := item.ProjectID != nil && *item.ProjectID == project.ID
		if backRef || project.ContainsLibraryItem(item.ID) {
			data.LibraryItems = append(data.LibraryItems, item)
		}
	}

	return data, nil
}

// ListLibraryItems implements PlannerService.ListLibraryItems.
func (s *plannerImpl) ListLibraryItems(ctx context.Context) ([]*domain.LibraryItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	items, err := s.library.ListAll(ctx)
	if err != nil {
		log.Error("failed to list library items", slog.String("error", err.Error()))
		return nil, NewPlannerError("list_library", "failed to read library items", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// SearchLibraryItems implements PlannerService.SearchLibraryItems.
func (s *plannerImpl) SearchLibraryItems(
	ctx context.Context,
	query string,
) ([]*domain.LibraryItem, error) {
	items, err := s.ListLibraryItems(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return items, nil
	}

	matched := []*domain.LibraryItem{}
	for _, item := range items {
		if libraryItemMatches(item, needle) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func libraryItemMatches(item *domain.LibraryItem, needle string) bool {
	for _, field := range []string{item.Title, item.Subtitle, item.Subject, string(item.Type)} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
