package service

import (
	"errors"
	"sort"
	"time"

	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/timeutil"
)

// GoalFilter selects one of the three canonical derived views over the goal
// collection.
type GoalFilter string

// Possible goal filter values
const (
	// FilterToday selects unfinished goals that are due now: undated goals
	// always qualify, dated goals qualify when their calendar day is today
	// or earlier (overdue included).
	FilterToday GoalFilter = "today"

	// FilterWeek selects unfinished goals due within the next 7 days of
	// wall-clock time (not calendar days), plus all undated goals. The
	// boundary is deliberately duration-relative while FilterToday is
	// calendar-relative; the asymmetry is part of the contract.
	FilterWeek GoalFilter = "week"

	// FilterDone selects completed goals.
	FilterDone GoalFilter = "done"
)

// ErrInvalidFilter is returned when a goal filter is not one of today/week/done.
var ErrInvalidFilter = errors.New("invalid goal filter")

// Valid reports whether the filter is one of the allowed values.
func (f GoalFilter) Valid() bool {
	switch f {
	case FilterToday, FilterWeek, FilterDone:
		return true
	}
	return false
}

// A goal with no due date sorts after every dated goal.
const undatedSortSentinel = 1 << 30

// FilterGoals returns the goals matching the given filter view.
// The input slice is not modified.
func FilterGoals(goals []*domain.Goal, filter GoalFilter, clock timeutil.Clock) []*domain.Goal {
	matched := []*domain.Goal{}
	now := clock.Now()
	weekBoundary := now.Add(7 * 24 * time.Hour)

	for _, goal := range goals {
		switch filter {
		case FilterDone:
			if goal.IsDone() {
				matched = append(matched, goal)
			}
		case FilterToday:
			if goal.IsDone() {
				continue
			}
			if goal.DueAt == nil || timeutil.DaysUntil(clock, *goal.DueAt) <= 0 {
				matched = append(matched, goal)
			}
		case FilterWeek:
			if goal.IsDone() {
				continue
			}
			if goal.DueAt == nil || !goal.DueAt.After(weekBoundary) {
				matched = append(matched, goal)
			}
		}
	}

	return matched
}

// SortGoals orders goals in place for display: ascending by days until due
// (undated goals last), ties broken by descending priority weight. The done
// view has no mandated order and uses recency (newest first) instead.
func SortGoals(goals []*domain.Goal, filter GoalFilter, clock timeutil.Clock) {
	if filter == FilterDone {
		sort.SliceStable(goals, func(i, j int) bool {
			return goals[i].CreatedAt.After(goals[j].CreatedAt)
		})
		return
	}

	sort.SliceStable(goals, func(i, j int) bool {
		di, dj := goalSortKey(goals[i], clock), goalSortKey(goals[j], clock)
		if di != dj {
			return di < dj
		}
		return goals[i].Priority.Weight() > goals[j].Priority.Weight()
	})
}

func goalSortKey(goal *domain.Goal, clock timeutil.Clock) int {
	if goal.DueAt == nil {
		return undatedSortSentinel
	}
	return timeutil.DaysUntil(clock, *goal.DueAt)
}
