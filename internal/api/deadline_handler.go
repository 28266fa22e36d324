package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/api/shared"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/session"
)

// DeadlineHandler handles deadline-related HTTP requests.
type DeadlineHandler struct {
	cache  *session.Cache
	logger *slog.Logger
}

// NewDeadlineHandler creates a new DeadlineHandler.
func NewDeadlineHandler(cache *session.Cache, logger *slog.Logger) *DeadlineHandler {
	if cache == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cache cannot be nil for DeadlineHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DeadlineHandler")
	}

	return &DeadlineHandler{
		cache:  cache,
		logger: logger.With(slog.String("component", "deadline_handler")),
	}
}

// ListDeadlines handles GET /deadlines requests. Deadlines come back
// sorted ascending by date.
func (h *DeadlineHandler) ListDeadlines(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.cache.Deadlines())
}

// CreateDeadline handles POST /deadlines requests.
func (h *DeadlineHandler) CreateDeadline(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateDeadlineRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	deadline, err := h.cache.AddDeadline(r.Context(), input)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("deadline created", slog.String("deadline_id", deadline.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deadline)
}

// PlanDeadline handles POST /deadlines/{id}/goals requests. It expands the
// deadline into its template goals; an unknown deadline yields 404.
func (h *DeadlineHandler) PlanDeadline(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Debug("invalid deadline id in path", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deadline ID")
		return
	}

	goals, err := h.cache.PlanDeadline(r.Context(), id)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}
	if len(goals) == 0 {
		shared.RespondWithError(w, r, http.StatusNotFound, "Deadline not found")
		return
	}

	log.Debug("deadline planned",
		slog.String("deadline_id", id.String()),
		slog.Int("goals_created", len(goals)))
	shared.RespondWithJSON(w, r, http.StatusCreated, goals)
}
