package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/studyloop/planner-api/internal/api/shared"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/session"
)

// CoachHandler handles coach tip HTTP requests.
type CoachHandler struct {
	cache  *session.Cache
	logger *slog.Logger
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(cache *session.Cache, logger *slog.Logger) *CoachHandler {
	if cache == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cache cannot be nil for CoachHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CoachHandler")
	}

	return &CoachHandler{
		cache:  cache,
		logger: logger.With(slog.String("component", "coach_handler")),
	}
}

// GetTips handles GET /coach/tips requests. The optional
// recent_activity_hours query parameter reports how long ago the user was
// last active and feeds the low-activity tip.
func (h *CoachHandler) GetTips(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if raw := r.URL.Query().Get("recent_activity_hours"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours < 0 {
			log.Debug("rejected coach tips request",
				slog.String("recent_activity_hours", raw))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid recent_activity_hours")
			return
		}
		h.cache.SetRecentActivityHours(hours)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.cache.Tips())
}
