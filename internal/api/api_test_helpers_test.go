package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/studyloop/planner-api/internal/api"
	"github.com/studyloop/planner-api/internal/platform/memory"
	"github.com/studyloop/planner-api/internal/service"
	"github.com/studyloop/planner-api/internal/service/coach"
	"github.com/studyloop/planner-api/internal/session"
	"github.com/studyloop/planner-api/internal/timeutil"
)

// fixedNow anchors every handler test to the same instant.
var fixedNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

// testLogger returns a logger that swallows output so handler noise stays
// out of test runs.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testServer wires real services over in-memory stores behind the full
// route table, so tests exercise the same paths production traffic takes.
type testServer struct {
	router  chi.Router
	planner service.PlannerService
	cache   *session.Cache
	library *memory.LibraryItemStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clock := timeutil.FixedClock{Instant: fixedNow}
	library := memory.NewLibraryItemStore()

	planner, err := service.NewPlannerService(
		memory.NewGoalStore(),
		memory.NewDeadlineStore(),
		memory.NewProjectStore(),
		library,
		clock,
		nil,
	)
	require.NoError(t, err)

	cache, err := session.NewCache(
		planner,
		memory.NewSnapshotStore(),
		coach.NewEngine(clock, nil),
		clock,
		nil,
	)
	require.NoError(t, err)
	cache.LoadAll(context.Background())

	logger := testLogger()
	goalHandler := api.NewGoalHandler(cache, logger)
	deadlineHandler := api.NewDeadlineHandler(cache, logger)
	projectHandler := api.NewProjectHandler(planner, logger)
	libraryHandler := api.NewLibraryHandler(cache, planner, logger)
	coachHandler := api.NewCoachHandler(cache, logger)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/goals", goalHandler.ListGoals)
		r.Post("/goals", goalHandler.CreateGoal)
		r.Patch("/goals/{id}", goalHandler.UpdateGoal)
		r.Post("/goals/{id}/complete", goalHandler.CompleteGoal)
		r.Post("/goals/{id}/postpone", goalHandler.PostponeGoal)
		r.Post("/goals/{id}/prioritize", goalHandler.PrioritizeGoal)

		r.Get("/deadlines", deadlineHandler.ListDeadlines)
		r.Post("/deadlines", deadlineHandler.CreateDeadline)
		r.Post("/deadlines/{id}/goals", deadlineHandler.PlanDeadline)

		r.Get("/projects", projectHandler.ListProjects)
		r.Post("/projects", projectHandler.CreateProject)
		r.Get("/projects/{id}", projectHandler.GetProjectData)

		r.Get("/library", libraryHandler.ListLibraryItems)

		r.Get("/coach/tips", coachHandler.GetTips)
	})

	return &testServer{router: r, planner: planner, cache: cache, library: library}
}

// do performs a request against the in-process router and decodes the JSON
// response into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path string, body, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < http.StatusMultipleChoices {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}
