package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/studyloop/planner-api/internal/api"
	apiMiddleware "github.com/studyloop/planner-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware)

	goalHandler := api.NewGoalHandler(app.cache, app.logger)
	deadlineHandler := api.NewDeadlineHandler(app.cache, app.logger)
	projectHandler := api.NewProjectHandler(app.planner, app.logger)
	libraryHandler := api.NewLibraryHandler(app.cache, app.planner, app.logger)
	coachHandler := api.NewCoachHandler(app.cache, app.logger)

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

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
