package api

import (
	"log/slog"
	"net/http"

	"github.com/studyloop/planner-api/internal/api/shared"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/service"
	"github.com/studyloop/planner-api/internal/session"
)

// LibraryHandler handles library-related HTTP requests. Unfiltered lists
// come from the session cache; searches go through the planner so they run
// against the authoritative stores.
type LibraryHandler struct {
	cache   *session.Cache
	planner service.PlannerService
	logger  *slog.Logger
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(
	cache *session.Cache,
	planner service.PlannerService,
	logger *slog.Logger,
) *LibraryHandler {
	if cache == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cache cannot be nil for LibraryHandler")
	}
	if planner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("planner cannot be nil for LibraryHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LibraryHandler")
	}

	return &LibraryHandler{
		cache:   cache,
		planner: planner,
		logger:  logger.With(slog.String("component", "library_handler")),
	}
}

// ListLibraryItems handles GET /library requests. An optional q parameter
// searches title, subtitle, subject and type case-insensitively.
func (h *LibraryHandler) ListLibraryItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	query := r.URL.Query().Get("q")
	if query == "" {
		shared.RespondWithJSON(w, r, http.StatusOK, h.cache.Library())
		return
	}

	log.Debug("searching library", slog.String("query", query))
	items, err := h.planner.SearchLibraryItems(r.Context(), query)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}
