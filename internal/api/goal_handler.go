package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/api/shared"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/service"
	"github.com/studyloop/planner-api/internal/session"
)

// GoalHandler handles goal-related HTTP requests. Reads are served from
// the session cache; mutations go through the cache so it stays coherent
// with the stores.
type GoalHandler struct {
	cache  *session.Cache
	logger *slog.Logger
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(cache *session.Cache, logger *slog.Logger) *GoalHandler {
	if cache == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cache cannot be nil for GoalHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GoalHandler")
	}

	return &GoalHandler{
		cache:  cache,
		logger: logger.With(slog.String("component", "goal_handler")),
	}
}

// ListGoals handles GET /goals requests. The filter query parameter selects
// the view and defaults to today.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	filter := service.GoalFilter(r.URL.Query().Get("filter"))
	if filter == "" {
		filter = service.FilterToday
	}
	if !filter.Valid() {
		log.Debug("rejected goal list request", slog.String("filter", string(filter)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid filter")
		return
	}

	goals := h.cache.Goals(filter)
	shared.RespondWithJSON(w, r, http.StatusOK, goals)
}

// CreateGoal handles POST /goals requests.
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateGoalRequest
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

	goal, err := h.cache.AddGoal(r.Context(), input)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("goal created", slog.String("goal_id", goal.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, goal)
}

// UpdateGoal handles PATCH /goals/{id} requests. Absent fields are left
// untouched.
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.goalID(w, r, log)
	if !ok {
		return
	}

	var req UpdateGoalRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	goal, err := h.cache.UpdateGoal(r.Context(), id, patch)
	h.respondWithGoal(w, r, log, goal, err)
}

// CompleteGoal handles POST /goals/{id}/complete requests.
func (h *GoalHandler) CompleteGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.goalID(w, r, log)
	if !ok {
		return
	}

	goal, err := h.cache.CompleteGoal(r.Context(), id)
	h.respondWithGoal(w, r, log, goal, err)
}

// PostponeGoal handles POST /goals/{id}/postpone requests.
func (h *GoalHandler) PostponeGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.goalID(w, r, log)
	if !ok {
		return
	}

	goal, err := h.cache.PostponeGoal(r.Context(), id)
	h.respondWithGoal(w, r, log, goal, err)
}

// PrioritizeGoal handles POST /goals/{id}/prioritize requests.
func (h *GoalHandler) PrioritizeGoal(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.goalID(w, r, log)
	if !ok {
		return
	}

	goal, err := h.cache.PrioritizeGoal(r.Context(), id)
	h.respondWithGoal(w, r, log, goal, err)
}

// goalID extracts and parses the goal id path parameter. It writes the
// error response itself when the id is malformed.
func (h *GoalHandler) goalID(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Debug("invalid goal id in path", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid goal ID")
		return uuid.Nil, false
	}
	return id, true
}

// respondWithGoal writes the common mutation response: a nil goal with a
// nil error means the goal does not exist.
func (h *GoalHandler) respondWithGoal(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	goal *domain.Goal,
	err error,
) {
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}
	if goal == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Goal not found")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, goal)
}
