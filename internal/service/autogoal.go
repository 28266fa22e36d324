package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/store"
)

// autoGoalTemplate is one entry of the fixed expansion a deadline produces.
type autoGoalTemplate struct {
	titleFormat string
	durationMin int
}

// The expansion order is part of the contract: review, practice, summary.
// Callers may rely on it for display.
var autoGoalTemplates = []autoGoalTemplate{
	{titleFormat: "Review course material — %s", durationMin: 45},
	{titleFormat: "Practice 10 questions — %s", durationMin: 25},
	{titleFormat: "Create one summary sheet — %s", durationMin: 45},
}

// AutoGoalsFromDeadline implements PlannerService.AutoGoalsFromDeadline.
// It expands the deadline into three goals sharing the deadline's subject
// and due instant. All three are high priority when the deadline importance
// is high, med otherwise. An unknown deadline id yields an empty slice and
// creates nothing.
func (s *plannerImpl) AutoGoalsFromDeadline(
	ctx context.Context,
	deadlineID uuid.UUID,
) ([]*domain.Goal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deadline, err := s.deadlines.GetByID(ctx, deadlineID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("auto-goal generation for unknown deadline is a no-op",
				slog.String("deadline_id", deadlineID.String()))
			return []*domain.Goal{}, nil
		}
		return nil, NewPlannerError("auto_goals", "failed to read deadline", err)
	}

	priority := domain.PriorityMed
	if deadline.Importance == domain.PriorityHigh {
		priority = domain.PriorityHigh
	}

	created := make([]*domain.Goal, 0, len(autoGoalTemplates))
	for _, tmpl := range autoGoalTemplates {
		due := deadline.Date
		goal, err := s.CreateGoal(ctx, CreateGoalInput{
			Title:       fmt.Sprintf(tmpl.titleFormat, deadline.Subject),
			Subject:     deadline.Subject,
			DurationMin: tmpl.durationMin,
			Priority:    priority,
			DueAt:       &due,
		})
		if err != nil {
			return nil, NewPlannerError("auto_goals", "failed to create generated goal", err)
		}
		created = append(created, goal)
	}

	log.Info("generated goals from deadline",
		slog.String("deadline_id", deadlineID.String()),
		slog.Int("goal_count", len(created)))
	return created, nil
}
