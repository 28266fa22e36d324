// Package coach derives short, actionable coaching suggestions from the
// current goal and deadline state. The engine is pure: it reads the slices
// it is given and never touches a store.
package coach

import (
	"fmt"
	"log/slog"

	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/timeutil"
)

// Stable tip identifiers, one per trigger condition. A consumer can diff
// tips across recomputations by identity because an id never varies with
// the tip's live counts.
const (
	TipLateGoals         = "late-goals"
	TipUpcomingDeadlines = "upcoming-deadlines"
	TipLowActivity       = "low-activity"
	TipSteadyState       = "steady-state"
)

// DefaultRecentActivityHours is assumed when the caller has no fresher
// activity signal. At 24 hours it always triggers the re-engagement tip.
const DefaultRecentActivityHours = 24

// lowActivityThresholdHours is the boundary above which the re-engagement
// tip fires.
const lowActivityThresholdHours = 18

// upcomingWindowDays is how far ahead a deadline counts as "upcoming".
const upcomingWindowDays = 7

// Engine computes coach tips from planning state.
type Engine struct {
	clock  timeutil.Clock
	logger *slog.Logger
}

// NewEngine creates a coach engine. A nil clock defaults to the real clock;
// a nil logger to the default logger.
func NewEngine(clock timeutil.Clock, logger *slog.Logger) *Engine {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		clock:  clock,
		logger: logger.With(slog.String("component", "coach_engine")),
	}
}

// Tips evaluates the trigger conditions in fixed priority order and returns
// at most one tip per condition. Messages embed the counts computed at
// generation time: tips are snapshots, not subscriptions. When nothing
// triggered, exactly one steady-state encouragement tip is returned, and it
// never co-occurs with a triggered condition. A negative
// recentActivityHours means the caller has no activity signal and falls
// back to DefaultRecentActivityHours; zero is a valid signal (active right
// now) and suppresses the low-activity tip.
func (e *Engine) Tips(
	goals []*domain.Goal,
	deadlines []*domain.Deadline,
	recentActivityHours float64,
) []domain.CoachTip {
	if recentActivityHours < 0 {
		recentActivityHours = DefaultRecentActivityHours
	}

	tips := []domain.CoachTip{}

	if late := e.countLateGoals(goals); late > 0 {
		tips = append(tips, domain.CoachTip{
			ID:    TipLateGoals,
			Title: "Catch up on overdue goals",
			Message: fmt.Sprintf(
				"You have %d overdue %s. A short focused session gets you back on track.",
				late, pluralize(late, "goal", "goals")),
			Actions: []domain.CoachAction{
				{Label: "Start a focused session", Kind: "start_session"},
				{Label: "Open goals", Kind: "open_goals"},
			},
		})
	}

	if upcoming := e.countUpcomingDeadlines(deadlines); upcoming > 0 {
		tips = append(tips, domain.CoachTip{
			ID:    TipUpcomingDeadlines,
			Title: "Deadlines are closing in",
			Message: fmt.Sprintf(
				"%d %s within the next 7 days. Plan goals now to spread the work.",
				upcoming, pluralize(upcoming, "deadline falls", "deadlines fall")),
			Actions: []domain.CoachAction{
				{Label: "Plan goals", Kind: "plan_goals"},
				{Label: "Open deadlines", Kind: "open_deadlines"},
			},
		})
	}

	if recentActivityHours > lowActivityThresholdHours {
		tips = append(tips, domain.CoachTip{
			ID:    TipLowActivity,
			Title: "Ease back in",
			Message: fmt.Sprintf(
				"It has been about %.0f hours since your last session. Even 15 minutes keeps the habit alive.",
				recentActivityHours),
			Actions: []domain.CoachAction{
				{Label: "Start a session", Kind: "start_session"},
				{Label: "Review a module", Kind: "review_module"},
			},
		})
	}

	if len(tips) == 0 {
		tips = append(tips, domain.CoachTip{
			ID:      TipSteadyState,
			Title:   "You're on track",
			Message: "Nothing is overdue and no deadline is pressing. Keep the momentum with one small goal.",
			Actions: []domain.CoachAction{
				{Label: "Plan one goal", Kind: "plan_goal"},
			},
		})
	}

	e.logger.Debug("computed coach tips", slog.Int("tip_count", len(tips)))
	return tips
}

// countLateGoals counts unfinished goals whose due date is strictly in the
// past by calendar days.
func (e *Engine) countLateGoals(goals []*domain.Goal) int {
	count := 0
	for _, goal := range goals {
		if goal.IsDone() || goal.DueAt == nil {
			continue
		}
		if timeutil.DaysUntil(e.clock, *goal.DueAt) < 0 {
			count++
		}
	}
	return count
}

// countUpcomingDeadlines counts deadlines falling within the upcoming
// window, past deadlines included: an exam that slipped by still deserves
// attention.
func (e *Engine) countUpcomingDeadlines(deadlines []*domain.Deadline) int {
	count := 0
	for _, deadline := range deadlines {
		if timeutil.DaysUntil(e.clock, deadline.Date) <= upcomingWindowDays {
			count++
		}
	}
	return count
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
