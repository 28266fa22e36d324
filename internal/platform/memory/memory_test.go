package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/platform/memory"
	"github.com/studyloop/planner-api/internal/store"
)

func newGoal(t *testing.T, title string) *domain.Goal {
	t.Helper()
	goal, err := domain.NewGoal(title, "Math", 30, domain.PriorityMed, domain.GoalStatusTodo, nil, nil)
	require.NoError(t, err)
	return goal
}

func TestGoalStoreCRUD(t *testing.T) {
	t.Parallel()
	s := memory.NewGoalStore()
	ctx := context.Background()

	goal := newGoal(t, "first")
	require.NoError(t, s.Create(ctx, goal))

	fetched, err := s.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, goal.Title, fetched.Title)

	// Mutating the returned copy must not leak into the store.
	fetched.Title = "mutated"
	again, err := s.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Title)

	newTitle := "patched"
	updated, err := s.Update(ctx, goal.ID, store.GoalPatch{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "patched", updated.Title)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGoalStoreNotFound(t *testing.T) {
	t.Parallel()
	s := memory.NewGoalStore()
	ctx := context.Background()

	_, err := s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrGoalNotFound)

	newTitle := "anything"
	_, err = s.Update(ctx, uuid.New(), store.GoalPatch{Title: &newTitle})
	assert.ErrorIs(t, err, store.ErrGoalNotFound)
}

func TestGoalStoreUpdateRejectsInvalidPatch(t *testing.T) {
	t.Parallel()
	s := memory.NewGoalStore()
	ctx := context.Background()

	goal := newGoal(t, "valid")
	require.NoError(t, s.Create(ctx, goal))

	empty := ""
	_, err := s.Update(ctx, goal.ID, store.GoalPatch{Title: &empty})
	assert.ErrorIs(t, err, domain.ErrGoalTitleEmpty)

	// The stored goal is untouched after the rejected patch.
	fetched, err := s.GetByID(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "valid", fetched.Title)
}

func TestGoalStoreCreateRejectsInvalidGoal(t *testing.T) {
	t.Parallel()
	s := memory.NewGoalStore()

	err := s.Create(context.Background(), &domain.Goal{ID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrGoalTitleEmpty)
}

func TestDeadlineStore(t *testing.T) {
	t.Parallel()
	s := memory.NewDeadlineStore()
	ctx := context.Background()

	deadline, err := domain.NewDeadline(
		"Exam", "Physics", time.Now().Add(72*time.Hour),
		domain.DeadlineTypeExam, domain.PriorityHigh, "")
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, deadline))

	fetched, err := s.GetByID(ctx, deadline.ID)
	require.NoError(t, err)
	assert.Equal(t, deadline.Title, fetched.Title)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrDeadlineNotFound)
}

func TestProjectStoreAddGoalID(t *testing.T) {
	t.Parallel()
	s := memory.NewProjectStore()
	ctx := context.Background()

	project, err := domain.NewProject("Revision", "", nil)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, project))

	goalID := uuid.New()
	require.NoError(t, s.AddGoalID(ctx, project.ID, goalID))
	require.NoError(t, s.AddGoalID(ctx, project.ID, goalID))

	fetched, err := s.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.GoalIDs, 1)
	assert.True(t, fetched.ContainsGoal(goalID))

	err = s.AddGoalID(ctx, uuid.New(), goalID)
	assert.ErrorIs(t, err, store.ErrProjectNotFound)
}

func TestProjectStoreCopiesIDSets(t *testing.T) {
	t.Parallel()
	s := memory.NewProjectStore()
	ctx := context.Background()

	project, err := domain.NewProject("Isolated", "", []string{"Bio"})
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, project))

	fetched, err := s.GetByID(ctx, project.ID)
	require.NoError(t, err)
	fetched.GoalIDs = append(fetched.GoalIDs, uuid.New())
	fetched.SubjectTags[0] = "mutated"

	again, err := s.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, again.GoalIDs)
	assert.Equal(t, "Bio", again.SubjectTags[0])
}

func TestLibraryItemStore(t *testing.T) {
	t.Parallel()
	s := memory.NewLibraryItemStore()
	ctx := context.Background()

	item, err := domain.NewLibraryItem(domain.LibraryItemTypeDocument, "Notes", "", "History", nil)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, item))

	fetched, err := s.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Title, fetched.Title)

	_, err = s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrLibraryItemNotFound)
}

func TestSnapshotStore(t *testing.T) {
	t.Parallel()
	s := memory.NewSnapshotStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrSnapshotNotFound)

	require.NoError(t, s.Set(ctx, "key", "value"))
	value, err := s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	// Overwrite replaces the previous value.
	require.NoError(t, s.Set(ctx, "key", "newer"))
	value, err = s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "newer", value)
}
