package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/planner-api/internal/domain"
)

func createGoalViaAPI(t *testing.T, s *testServer, body map[string]interface{}) domain.Goal {
	t.Helper()

	var goal domain.Goal
	rec := s.do(t, http.MethodPost, "/api/goals", body, &goal)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return goal
}

func TestCreateGoalEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	goal := createGoalViaAPI(t, s, map[string]interface{}{
		"title":        "Read chapter 3",
		"subject":      "Biology",
		"duration_min": 45,
		"priority":     "high",
		"due_at":       "2024-03-16T10:00:00Z",
	})

	assert.NotEqual(t, uuid.Nil, goal.ID)
	assert.Equal(t, "Read chapter 3", goal.Title)
	assert.Equal(t, domain.PriorityHigh, goal.Priority)
	assert.Equal(t, domain.GoalStatusTodo, goal.Status)
	require.NotNil(t, goal.DueAt)
}

func TestCreateGoalEndpointValidation(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"duration_min": 30}},
		{"zero duration", map[string]interface{}{"title": "x", "duration_min": 0}},
		{"bad priority", map[string]interface{}{"title": "x", "duration_min": 30, "priority": "urgent"}},
		{"bad status", map[string]interface{}{"title": "x", "duration_min": 30, "status": "paused"}},
		{"bad due date", map[string]interface{}{"title": "x", "duration_min": 30, "due_at": "not-a-date"}},
		{"bad project id", map[string]interface{}{"title": "x", "duration_min": 30, "project_id": "nope"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := s.do(t, http.MethodPost, "/api/goals", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestListGoalsEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	createGoalViaAPI(t, s, map[string]interface{}{
		"title":        "due today",
		"duration_min": 30,
		"due_at":       fixedNow.Format("2006-01-02T15:04:05Z"),
	})
	createGoalViaAPI(t, s, map[string]interface{}{
		"title":        "due next month",
		"duration_min": 30,
		"due_at":       fixedNow.AddDate(0, 1, 0).Format("2006-01-02T15:04:05Z"),
	})

	// Default filter is today.
	var today []domain.Goal
	rec := s.do(t, http.MethodGet, "/api/goals", nil, &today)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, today, 1)
	assert.Equal(t, "due today", today[0].Title)

	var week []domain.Goal
	rec = s.do(t, http.MethodGet, "/api/goals?filter=week", nil, &week)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, week, 1)

	var done []domain.Goal
	rec = s.do(t, http.MethodGet, "/api/goals?filter=done", nil, &done)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, done)

	rec = s.do(t, http.MethodGet, "/api/goals?filter=someday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateGoalEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	goal := createGoalViaAPI(t, s, map[string]interface{}{
		"title":        "original",
		"duration_min": 30,
		"due_at":       "2024-03-18T09:00:00Z",
	})

	var updated domain.Goal
	rec := s.do(t, http.MethodPatch, "/api/goals/"+goal.ID.String(), map[string]interface{}{
		"title":  "renamed",
		"status": "doing",
	}, &updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, domain.GoalStatusDoing, updated.Status)
	assert.NotNil(t, updated.DueAt)

	// An empty due_at clears the date.
	rec = s.do(t, http.MethodPatch, "/api/goals/"+goal.ID.String(), map[string]interface{}{
		"due_at": "",
	}, &updated)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, updated.DueAt)
}

func TestUpdateGoalEndpointNotFound(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/api/goals/"+uuid.NewString(), map[string]interface{}{
		"title": "ghost",
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateGoalEndpointBadID(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/api/goals/not-a-uuid", map[string]interface{}{
		"title": "x",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoalActionEndpoints(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	goal := createGoalViaAPI(t, s, map[string]interface{}{
		"title":        "actionable",
		"duration_min": 30,
		"priority":     "low",
		"due_at":       "2024-03-17T08:00:00Z",
	})
	base := "/api/goals/" + goal.ID.String()

	var prioritized domain.Goal
	rec := s.do(t, http.MethodPost, base+"/prioritize", nil, &prioritized)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PriorityHigh, prioritized.Priority)

	var postponed domain.Goal
	rec = s.do(t, http.MethodPost, base+"/postpone", nil, &postponed)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, postponed.DueAt)
	assert.Equal(t, "2024-03-18T08:00:00Z", postponed.DueAt.Format("2006-01-02T15:04:05Z"))
	assert.Equal(t, domain.GoalStatusTodo, postponed.Status)

	var completed domain.Goal
	rec = s.do(t, http.MethodPost, base+"/complete", nil, &completed)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.GoalStatusDone, completed.Status)

	// Action endpoints on a missing goal return 404.
	for _, action := range []string{"complete", "postpone", "prioritize"} {
		rec := s.do(t, http.MethodPost, fmt.Sprintf("/api/goals/%s/%s", uuid.NewString(), action), nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, action)
	}
}
