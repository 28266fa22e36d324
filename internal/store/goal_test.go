package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
)

func baseGoal() domain.Goal {
	due := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	return domain.Goal{
		ID:          uuid.New(),
		Title:       "original",
		Subject:     "Math",
		DurationMin: 30,
		Priority:    domain.PriorityMed,
		Status:      domain.GoalStatusTodo,
		DueAt:       &due,
		CreatedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGoalPatchApply(t *testing.T) {
	t.Parallel() // Enable parallel execution
	goal := baseGoal()

	newTitle := "revised"
	newDuration := 60
	high := domain.PriorityHigh
	doing := domain.GoalStatusDoing

	patch := GoalPatch{
		Title:       &newTitle,
		DurationMin: &newDuration,
		Priority:    &high,
		Status:      &doing,
	}
	patch.Apply(&goal)

	if goal.Title != "revised" {
		t.Errorf("Expected title %q, got %q", "revised", goal.Title)
	}
	if goal.DurationMin != 60 {
		t.Errorf("Expected duration 60, got %d", goal.DurationMin)
	}
	if goal.Priority != domain.PriorityHigh {
		t.Errorf("Expected priority high, got %s", goal.Priority)
	}
	if goal.Status != domain.GoalStatusDoing {
		t.Errorf("Expected status doing, got %s", goal.Status)
	}

	// Untouched fields survive.
	if goal.Subject != "Math" {
		t.Errorf("Expected subject untouched, got %q", goal.Subject)
	}
	if goal.DueAt == nil {
		t.Error("Expected due date untouched")
	}
}

func TestGoalPatchApplyEmptyPatchIsNoOp(t *testing.T) {
	t.Parallel() // Enable parallel execution
	goal := baseGoal()
	before := goal

	GoalPatch{}.Apply(&goal)

	if goal.Title != before.Title || goal.Status != before.Status ||
		goal.DueAt != before.DueAt {
		t.Error("Expected empty patch to leave the goal unchanged")
	}
}

func TestGoalPatchDueDateSemantics(t *testing.T) {
	t.Parallel() // Enable parallel execution
	// Clearing: a present DueAt field holding a nil pointer removes the
	// due date.
	goal := baseGoal()
	var cleared *time.Time
	GoalPatch{DueAt: &cleared}.Apply(&goal)
	if goal.DueAt != nil {
		t.Errorf("Expected cleared due date, got %v", goal.DueAt)
	}

	// Setting: a present DueAt field holding a real pointer replaces it.
	goal = baseGoal()
	newDue := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	duePtr := &newDue
	GoalPatch{DueAt: &duePtr}.Apply(&goal)
	if goal.DueAt == nil || !goal.DueAt.Equal(newDue) {
		t.Errorf("Expected due date %v, got %v", newDue, goal.DueAt)
	}

	// Absent: a nil DueAt field leaves the existing date alone.
	goal = baseGoal()
	GoalPatch{}.Apply(&goal)
	if goal.DueAt == nil {
		t.Error("Expected due date untouched by absent field")
	}
}
