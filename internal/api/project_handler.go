package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/studyloop/planner-api/internal/api/shared"
	"github.com/studyloop/planner-api/internal/platform/logger"
	"github.com/studyloop/planner-api/internal/service"
)

// ProjectHandler handles project-related HTTP requests. Projects are read
// through the planner directly rather than the session cache: the detail
// view resolves cross-record membership that the cache does not index.
type ProjectHandler struct {
	planner service.PlannerService
	logger  *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(planner service.PlannerService, logger *slog.Logger) *ProjectHandler {
	if planner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("planner cannot be nil for ProjectHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProjectHandler")
	}

	return &ProjectHandler{
		planner: planner,
		logger:  logger.With(slog.String("component", "project_handler")),
	}
}

// ListProjects handles GET /projects requests. Projects come back sorted
// descending by progress.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.planner.ListProjects(r.Context())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, projects)
}

// CreateProject handles POST /projects requests.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	project, err := h.planner.CreateProject(r.Context(), req.ToInput())
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("project created", slog.String("project_id", project.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, project)
}

// GetProjectData handles GET /projects/{id} requests. The response bundles
// the project with its related goals, deadlines and library items.
func (h *ProjectHandler) GetProjectData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Debug("invalid project id in path", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project ID")
		return
	}

	data, err := h.planner.GetProjectData(r.Context(), id)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}
	if data == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Project not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProjectDataResponse{
		Project:      data.Project,
		Goals:        data.Goals,
		Deadlines:    data.Deadlines,
		LibraryItems: data.LibraryItems,
	})
}
