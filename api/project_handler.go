package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saadraza/portfolio-backend/database"
	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/models"
)

// projectStore is the slice of the project repo the handler needs.
type projectStore interface {
	Add(project *models.Project) error
	FindByID(id uuid.UUID) (*models.Project, error)
	FindFiltered(filter database.ProjectFilter) ([]*models.Project, int64, error)
	FindFeatured(limit int) ([]*models.Project, error)
	FindByCategory(category string, limit int) ([]*models.Project, error)
	Search(query string, limit int) ([]*models.Project, error)
	Update(project *models.Project) error
	Delete(id uuid.UUID) error
	IncrementViews(id uuid.UUID) error
	IncrementLikes(id uuid.UUID) (int64, error)
	Stats() (*models.ProjectStats, error)
	CountByColumn(column string) ([]models.GroupCount, error)
	FindRecent(limit int) ([]*models.Project, error)
}

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
}

func newProjectHandler(projects projectStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()
	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// canManage reports whether the request carries the project-management
// permission.
func canManage(r *http.Request) bool {
	user := ctxGetUser(r.Context())
	return user != nil && user.HasPermission(models.PermManageProjects)
}

// list returns one page of projects. Anonymous and unprivileged callers see
// public projects only; authenticated reads bump view counters.
func (h projectHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := database.ProjectFilter{
			PublicOnly: !canManage(r),
			Category:   q.Get("category"),
			Difficulty: q.Get("difficulty"),
			Status:     q.Get("status"),
			Featured:   queryBoolPtr(q.Get("featured")),
			Search:     q.Get("search"),
			SortBy:     q.Get("sortBy"),
			SortOrder:  q.Get("sortOrder"),
			Page:       queryInt(q.Get("page"), 1, 1),
			Limit:      queryInt(q.Get("limit"), 12, 1),
		}

		projects, total, err := h.projects.FindFiltered(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		if ctxGetUser(r.Context()) != nil {
			ids := make([]uuid.UUID, 0, len(projects))
			for _, p := range projects {
				ids = append(ids, p.ID)
			}
			go h.bumpViews(ids)
		}

		h.responder.WritePage(w, projects, NewPagination(filter.Page, filter.Limit, total))
	}
}

func (h projectHandler) bumpViews(ids []uuid.UUID) {
	for _, id := range ids {
		if err := h.projects.IncrementViews(id); err != nil {
			h.logger.Warn().Err(err).Str("projectId", id.String()).Msg("view increment failed")
		}
	}
}

// featured returns the newest public featured projects.
func (h projectHandler) featured() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r.URL.Query().Get("limit"), 6, 1)
		projects, err := h.projects.FindFeatured(limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find featured projects", "projects", err))
			return
		}
		h.responder.WriteData(w, projects)
	}
}

// byCategory returns public projects in one enum-checked category.
func (h projectHandler) byCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := chi.URLParam(r, "category")
		if !models.IsValidProjectCategory(category) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "unknown category"))
			return
		}

		limit := queryInt(r.URL.Query().Get("limit"), 10, 1)
		projects, err := h.projects.FindByCategory(category, limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}
		h.responder.WriteData(w, projects)
	}
}

// search matches public projects against a free-text query of at least two
// characters.
func (h projectHandler) search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if len(query) < 2 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("q", "must be at least 2 characters"))
			return
		}

		limit := queryInt(r.URL.Query().Get("limit"), 10, 1)
		projects, err := h.projects.Search(query, limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("search projects", "projects", err))
			return
		}
		h.responder.WriteData(w, projects)
	}
}

// get returns one project. Private projects answer 404 to unprivileged
// callers so their existence never leaks.
func (h projectHandler) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if !project.IsPublic && !canManage(r) {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if ctxGetUser(r.Context()) != nil {
			go h.bumpViews([]uuid.UUID{project.ID})
		}

		h.responder.WriteData(w, project)
	}
}

// like increments the like counter; there is no unlike.
func (h projectHandler) like() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if !project.IsPublic && !canManage(r) {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		likes, err := h.projects.IncrementLikes(project.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.responder.WriteMessage(w, "Project liked", map[string]any{"likes": likes})
	}
}

// create validates the full payload and inserts a new project.
func (h projectHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.ProjectInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if apiErr := input.Validate(true); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		project := models.NewProject(&input, time.Now())
		if err := h.projects.Add(project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}

		h.responder.WriteCreated(w, "Project created", project)
	}
}

// update handles both PUT (full validation) and PATCH (provided keys only).
func (h projectHandler) update(requireAll bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var input models.ProjectInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if apiErr := input.Validate(requireAll); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		input.Apply(project)
		if err := h.projects.Update(project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.responder.WriteMessage(w, "Project updated", project)
	}
}

func (h projectHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.projects.Delete(project.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}

		h.responder.WriteMessage(w, "Project deleted", nil)
	}
}

// stats serves the admin overview: totals, per-enum breakdowns and the five
// most recent projects.
func (h projectHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.projects.Stats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate projects", "projects", err))
			return
		}

		byCategory, err := h.projects.CountByColumn("category")
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate projects", "projects", err))
			return
		}
		byStatus, err := h.projects.CountByColumn("status")
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate projects", "projects", err))
			return
		}
		recent, err := h.projects.FindRecent(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recent projects", "projects", err))
			return
		}

		h.responder.WriteData(w, map[string]any{
			"stats":      stats,
			"byCategory": byCategory,
			"byStatus":   byStatus,
			"recent":     recent,
		})
	}
}

// load resolves the {projectID} route parameter to a row.
func (h projectHandler) load(r *http.Request) (*models.Project, *errs.ApiErr) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid project id")
	}

	project, err := h.projects.FindByID(id)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to load project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError("project not found")
	}
	return project, nil
}
