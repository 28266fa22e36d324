package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/platform/memory"
	"github.com/studyloop/planner-api/internal/service"
	"github.com/studyloop/planner-api/internal/store"
	"github.com/studyloop/planner-api/internal/timeutil"
)

// fixedNow is the reference instant for every planner test. Mid-afternoon
// so same-day boundaries are exercised away from midnight.
var fixedNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

func newTestPlanner(t *testing.T) service.PlannerService {
	t.Helper()

	planner, err := service.NewPlannerService(
		memory.NewGoalStore(),
		memory.NewDeadlineStore(),
		memory.NewProjectStore(),
		memory.NewLibraryItemStore(),
		timeutil.FixedClock{Instant: fixedNow},
		nil,
	)
	require.NoError(t, err)
	return planner
}

func mustCreateGoal(
	t *testing.T,
	planner service.PlannerService,
	title string,
	priority domain.Priority,
	dueAt *time.Time,
) *domain.Goal {
	t.Helper()

	goal, err := planner.CreateGoal(context.Background(), service.CreateGoalInput{
		Title:       title,
		DurationMin: 30,
		Priority:    priority,
		DueAt:       dueAt,
	})
	require.NoError(t, err)
	require.NotNil(t, goal)
	return goal
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestNewPlannerService(t *testing.T) {
	t.Parallel()

	goals := memory.NewGoalStore()
	deadlines := memory.NewDeadlineStore()
	projects := memory.NewProjectStore()
	library := memory.NewLibraryItemStore()

	tests := []struct {
		name      string
		goals     store.GoalStore
		deadlines store.DeadlineStore
		projects  store.ProjectStore
		library   store.LibraryItemStore
		wantErr   bool
	}{
		{"all dependencies", goals, deadlines, projects, library, false},
		{"nil goal store", nil, deadlines, projects, library, true},
		{"nil deadline store", goals, nil, projects, library, true},
		{"nil project store", goals, deadlines, nil, library, true},
		{"nil library store", goals, deadlines, projects, nil, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			planner, err := service.NewPlannerService(
				tt.goals, tt.deadlines, tt.projects, tt.library, nil, nil)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, planner)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, planner)
			}
		})
	}
}

func TestListGoalsTodayFilter(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	overdue := mustCreateGoal(t, planner, "overdue", domain.PriorityMed,
		timePtr(fixedNow.AddDate(0, 0, -2)))
	dueToday := mustCreateGoal(t, planner, "due today", domain.PriorityMed,
		timePtr(time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC)))
	undated := mustCreateGoal(t, planner, "undated", domain.PriorityMed, nil)
	mustCreateGoal(t, planner, "due tomorrow", domain.PriorityMed,
		timePtr(fixedNow.AddDate(0, 0, 1)))

	doneGoal := mustCreateGoal(t, planner, "finished", domain.PriorityMed,
		timePtr(fixedNow.AddDate(0, 0, -1)))
	_, err := planner.CompleteGoal(ctx, doneGoal.ID)
	require.NoError(t, err)

	goals, err := planner.ListGoals(ctx, service.FilterToday)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(goals))
	for _, g := range goals {
		ids = append(ids, g.ID)
	}
	assert.Len(t, goals, 3)
	assert.Contains(t, ids, overdue.ID)
	assert.Contains(t, ids, dueToday.ID)
	assert.Contains(t, ids, undated.ID)
}

func TestListGoalsWeekFilter(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	// The week boundary is seven days of wall-clock time from now, so a
	// goal due 6 days and 23 hours out is in, 7 days and 1 hour is out.
	inside := mustCreateGoal(t, planner, "inside", domain.PriorityMed,
		timePtr(fixedNow.Add(6*24*time.Hour+23*time.Hour)))
	mustCreateGoal(t, planner, "outside", domain.PriorityMed,
		timePtr(fixedNow.Add(7*24*time.Hour+time.Hour)))
	undated := mustCreateGoal(t, planner, "undated", domain.PriorityMed, nil)

	goals, err := planner.ListGoals(ctx, service.FilterWeek)
	require.NoError(t, err)

	require.Len(t, goals, 2)
	assert.Equal(t, inside.ID, goals[0].ID)
	assert.Equal(t, undated.ID, goals[1].ID)
}

func TestListGoalsSortOrder(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	undated := mustCreateGoal(t, planner, "undated", domain.PriorityHigh, nil)
	farLow := mustCreateGoal(t, planner, "in three days low", domain.PriorityLow,
		timePtr(fixedNow.AddDate(0, 0, 3)))
	// Same day, different priorities. High must come first on the tie.
	todayLow := mustCreateGoal(t, planner, "today low", domain.PriorityLow,
		timePtr(fixedNow.Add(time.Hour)))
	todayHigh := mustCreateGoal(t, planner, "today high", domain.PriorityHigh,
		timePtr(fixedNow.Add(2*time.Hour)))

	goals, err := planner.ListGoals(ctx, service.FilterWeek)
	require.NoError(t, err)

	require.Len(t, goals, 4)
	assert.Equal(t, todayHigh.ID, goals[0].ID)
	assert.Equal(t, todayLow.ID, goals[1].ID)
	assert.Equal(t, farLow.ID, goals[2].ID)
	// Undated sorts after every dated goal regardless of priority.
	assert.Equal(t, undated.ID, goals[3].ID)
}

func TestListGoalsInvalidFilter(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)

	goals, err := planner.ListGoals(context.Background(), service.GoalFilter("someday"))
	assert.Nil(t, goals)
	assert.ErrorIs(t, err, service.ErrInvalidFilter)
}

func TestCreateGoalAddsToProject(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	project, err := planner.CreateProject(ctx, service.CreateProjectInput{Name: "Finals"})
	require.NoError(t, err)

	goal, err := planner.CreateGoal(ctx, service.CreateGoalInput{
		Title:       "Read chapter 2",
		DurationMin: 20,
		ProjectID:   &project.ID,
	})
	require.NoError(t, err)

	data, err := planner.GetProjectData(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.True(t, data.Project.ContainsGoal(goal.ID))
}

func TestCreateGoalUnknownProjectIsNonFatal(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)

	missingProject := uuid.New()
	goal, err := planner.CreateGoal(context.Background(), service.CreateGoalInput{
		Title:       "Orphaned goal",
		DurationMin: 15,
		ProjectID:   &missingProject,
	})
	require.NoError(t, err)
	require.NotNil(t, goal)
	assert.Equal(t, missingProject, *goal.ProjectID)
}

func TestCreateGoalInvalidData(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)

	_, err := planner.CreateGoal(context.Background(), service.CreateGoalInput{
		Title:       "",
		DurationMin: 30,
	})
	assert.ErrorIs(t, err, domain.ErrGoalTitleEmpty)
}

func TestUpdateGoal(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	goal := mustCreateGoal(t, planner, "original title", domain.PriorityLow, nil)

	newTitle := "revised title"
	doing := domain.GoalStatusDoing
	updated, err := planner.UpdateGoal(ctx, goal.ID, store.GoalPatch{
		Title:  &newTitle,
		Status: &doing,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "revised title", updated.Title)
	assert.Equal(t, domain.GoalStatusDoing, updated.Status)
	// Untouched fields survive the patch.
	assert.Equal(t, domain.PriorityLow, updated.Priority)
}

func TestUpdateGoalClearsDueDate(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	goal := mustCreateGoal(t, planner, "dated", domain.PriorityMed,
		timePtr(fixedNow.AddDate(0, 0, 2)))

	var cleared *time.Time
	updated, err := planner.UpdateGoal(ctx, goal.ID, store.GoalPatch{DueAt: &cleared})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Nil(t, updated.DueAt)
}

func TestUpdateGoalUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)

	newTitle := "anything"
	updated, err := planner.UpdateGoal(context.Background(), uuid.New(), store.GoalPatch{
		Title: &newTitle,
	})
	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestCompleteGoal(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	goal := mustCreateGoal(t, planner, "to finish", domain.PriorityMed, nil)

	completed, err := planner.CompleteGoal(ctx, goal.ID)
	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.Equal(t, domain.GoalStatusDone, completed.Status)

	// Done goals leave the active views and appear in the done view.
	today, err := planner.ListGoals(ctx, service.FilterToday)
	require.NoError(t, err)
	assert.Empty(t, today)

	done, err := planner.ListGoals(ctx, service.FilterDone)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, goal.ID, done[0].ID)
}

func TestPostponeGoalWithDueDate(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	due := time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC)
	goal := mustCreateGoal(t, planner, "slipping", domain.PriorityMed, &due)

	doing := domain.GoalStatusDoing
	_, err := planner.UpdateGoal(ctx, goal.ID, store.GoalPatch{Status: &doing})
	require.NoError(t, err)

	postponed, err := planner.PostponeGoal(ctx, goal.ID)
	require.NoError(t, err)
	require.NotNil(t, postponed)

	// One calendar day later, time of day preserved, status back to todo.
	assert.Equal(t, time.Date(2024, 3, 21, 9, 30, 0, 0, time.UTC), *postponed.DueAt)
	assert.Equal(t, domain.GoalStatusTodo, postponed.Status)
}

func TestPostponeGoalWithoutDueDate(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)

	goal := mustCreateGoal(t, planner, "undated", domain.PriorityMed, nil)

	postponed, err := planner.PostponeGoal(context.Background(), goal.ID)
	require.NoError(t, err)
	require.NotNil(t, postponed)
	require.NotNil(t, postponed.DueAt)
	assert.Equal(t, fixedNow.AddDate(0, 0, 1), *postponed.DueAt)
}

func TestPostponeGoalUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)

	postponed, err := planner.PostponeGoal(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, postponed)
}

func TestPrioritizeGoal(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)

	goal := mustCreateGoal(t, planner, "needs attention", domain.PriorityLow, nil)

	prioritized, err := planner.PrioritizeGoal(context.Background(), goal.ID)
	require.NoError(t, err)
	require.NotNil(t, prioritized)
	assert.Equal(t, domain.PriorityHigh, prioritized.Priority)
}

func TestListDeadlinesSortedByDate(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	later, err := planner.CreateDeadline(ctx, service.CreateDeadlineInput{
		Title: "Final exam",
		Date:  fixedNow.AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	sooner, err := planner.CreateDeadline(ctx, service.CreateDeadlineInput{
		Title: "Lab report",
		Date:  fixedNow.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	deadlines, err := planner.ListDeadlines(ctx)
	require.NoError(t, err)
	require.Len(t, deadlines, 2)
	assert.Equal(t, sooner.ID, deadlines[0].ID)
	assert.Equal(t, later.ID, deadlines[1].ID)
}

func TestListProjectsSortedByProgress(t *testing.T) {
	t.Parallel()

	projectStore := memory.NewProjectStore()
	planner, err := service.NewPlannerService(
		memory.NewGoalStore(), memory.NewDeadlineStore(), projectStore,
		memory.NewLibraryItemStore(), timeutil.FixedClock{Instant: fixedNow}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for _, p := range []struct {
		name     string
		progress int
	}{
		{"Halfway", 50}, {"Barely started", 10}, {"Nearly done", 90},
	} {
		project, err := domain.NewProject(p.name, "", nil)
		require.NoError(t, err)
		project.Progress = p.progress
		require.NoError(t, projectStore.Create(ctx, project))
	}

	projects, err := planner.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "Nearly done", projects[0].Name)
	assert.Equal(t, "Halfway", projects[1].Name)
	assert.Equal(t, "Barely started", projects[2].Name)
}

func TestGetProjectDataUnionMembership(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	project, err := planner.CreateProject(ctx, service.CreateProjectInput{Name: "Union"})
	require.NoError(t, err)

	// Back-referenced goal: membership comes from the goal's project id.
	backRef, err := planner.CreateGoal(ctx, service.CreateGoalInput{
		Title:       "back-referenced",
		DurationMin: 20,
		ProjectID:   &project.ID,
	})
	require.NoError(t, err)

	// Unrelated goal must not leak in.
	mustCreateGoal(t, planner, "unrelated", domain.PriorityMed, nil)

	data, err := planner.GetProjectData(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, data)

	require.Len(t, data.Goals, 1)
	assert.Equal(t, backRef.ID, data.Goals[0].ID)
	assert.Empty(t, data.Deadlines)
	assert.Empty(t, data.LibraryItems)
}

func TestGetProjectDataUnknownID(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)

	data, err := planner.GetProjectData(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestAutoGoalsFromDeadline(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	date := fixedNow.AddDate(0, 0, 10)
	deadline, err := planner.CreateDeadline(ctx, service.CreateDeadlineInput{
		Title:      "Midterm",
		Subject:    "Statistics",
		Date:       date,
		Type:       domain.DeadlineTypeExam,
		Importance: domain.PriorityHigh,
	})
	require.NoError(t, err)

	goals, err := planner.AutoGoalsFromDeadline(ctx, deadline.ID)
	require.NoError(t, err)
	require.Len(t, goals, 3)

	wantTitles := []string{
		"Review course material — Statistics",
		"Practice 10 questions — Statistics",
		"Create one summary sheet — Statistics",
	}
	wantDurations := []int{45, 25, 45}
	for i, goal := range goals {
		assert.Equal(t, wantTitles[i], goal.Title, "goal %d title", i)
		assert.Equal(t, wantDurations[i], goal.DurationMin, "goal %d duration", i)
		assert.Equal(t, "Statistics", goal.Subject)
		assert.Equal(t, domain.PriorityHigh, goal.Priority)
		assert.Equal(t, domain.GoalStatusTodo, goal.Status)
		require.NotNil(t, goal.DueAt)
		assert.True(t, goal.DueAt.Equal(date))
	}

	// Generated goals are persisted, not just returned: completing one
	// lands it in the done view.
	completed, err := planner.CompleteGoal(ctx, goals[0].ID)
	require.NoError(t, err)
	require.NotNil(t, completed)
	done, err := planner.ListGoals(ctx, service.FilterDone)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, goals[0].ID, done[0].ID)
}

func TestAutoGoalsPriorityFollowsImportance(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	tests := []struct {
		importance domain.Priority
		want       domain.Priority
	}{
		{domain.PriorityLow, domain.PriorityMed},
		{domain.PriorityMed, domain.PriorityMed},
		{domain.PriorityHigh, domain.PriorityHigh},
	}

	for _, tt := range tests {
		deadline, err := planner.CreateDeadline(ctx, service.CreateDeadlineInput{
			Title:      fmt.Sprintf("deadline %s", tt.importance),
			Subject:    "History",
			Date:       fixedNow.AddDate(0, 0, 5),
			Importance: tt.importance,
		})
		require.NoError(t, err)

		goals, err := planner.AutoGoalsFromDeadline(ctx, deadline.ID)
		require.NoError(t, err)
		for _, goal := range goals {
			assert.Equal(t, tt.want, goal.Priority,
				"importance %s should produce priority %s", tt.importance, tt.want)
		}
	}
}

func TestAutoGoalsUnknownDeadline(t *testing.T) {
	t.Parallel()
	planner := newTestPlanner(t)
	ctx := context.Background()

	goals, err := planner.AutoGoalsFromDeadline(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Empty(t, goals)

	// Nothing was created as a side effect.
	all, err := planner.ListGoals(ctx, service.FilterToday)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSearchLibraryItems(t *testing.T) {
	t.Parallel()

	goalStore := memory.NewGoalStore()
	deadlineStore := memory.NewDeadlineStore()
	projectStore := memory.NewProjectStore()
	libraryStore := memory.NewLibraryItemStore()

	planner, err := service.NewPlannerService(
		goalStore, deadlineStore, projectStore, libraryStore,
		timeutil.FixedClock{Instant: fixedNow}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	deck, err := domain.NewLibraryItem(domain.LibraryItemTypeFlashcards, "Verb conjugation", "", "Spanish", nil)
	require.NoError(t, err)
	require.NoError(t, libraryStore.Create(ctx, deck))
	doc, err := domain.NewLibraryItem(domain.LibraryItemTypeDocument, "Course syllabus", "Spring term", "Biology", nil)
	require.NoError(t, err)
	require.NoError(t, libraryStore.Create(ctx, doc))

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"title match", "conjugation", 1},
		{"case insensitive", "VERB", 1},
		{"subject match", "biology", 1},
		{"subtitle match", "spring", 1},
		{"type match", "flashcards", 1},
		{"no match", "calculus", 0},
		{"empty query returns all", "", 2},
		{"whitespace query returns all", "   ", 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			items, err := planner.SearchLibraryItems(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}
