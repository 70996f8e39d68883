package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saadraza/portfolio-backend/database"
	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/models"
	"github.com/saadraza/portfolio-backend/validate"
)

// skillStore is the slice of the skill repo the handler needs.
type skillStore interface {
	Add(skill *models.Skill) error
	FindByID(id uuid.UUID) (*models.Skill, error)
	FindByName(name string) (*models.Skill, error)
	FindFiltered(filter database.SkillFilter) ([]*models.Skill, error)
	FindByCategory(category string) ([]*models.Skill, error)
	FindFeatured(limit int) ([]*models.Skill, error)
	FindTop(limit int) ([]*models.Skill, error)
	Search(query string, limit int) ([]*models.Skill, error)
	Update(skill *models.Skill) error
	Delete(id uuid.UUID) error
	Stats() (*models.SkillStats, error)
	CategoryBreakdown() ([]models.CategoryProficiency, error)
	ProficiencyHistogram() ([]models.GroupCount, error)
	FindRecent(limit int) ([]*models.Skill, error)
}

// technologyCounter answers how many projects reference a skill name in
// their technologies list. Backs the delete integrity check.
type technologyCounter interface {
	CountByTechnology(name string) (int64, error)
}

type skillHandler struct {
	responder Responder
	logger    zerolog.Logger
	skills    skillStore
	projects  technologyCounter
}

func newSkillHandler(skills skillStore, projects technologyCounter) skillHandler {
	logger := log.With().Str("handlerName", "skillHandler").Logger()
	return skillHandler{
		responder: NewResponder(logger),
		logger:    logger,
		skills:    skills,
		projects:  projects,
	}
}

// list returns active skills matching the public filters, default order asc.
func (h skillHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := database.SkillFilter{
			ActiveOnly: true,
			Category:   q.Get("category"),
			Featured:   queryBoolPtr(q.Get("featured")),
			Search:     q.Get("search"),
			SortBy:     q.Get("sortBy"),
			SortOrder:  q.Get("sortOrder"),
		}

		skills, err := h.skills.FindFiltered(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skills", "skills", err))
			return
		}
		h.responder.WriteData(w, skills)
	}
}

// byCategory returns active skills in one enum-checked category.
func (h skillHandler) byCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := chi.URLParam(r, "category")
		if !models.IsValidSkillCategory(category) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("category", "unknown category"))
			return
		}

		skills, err := h.skills.FindByCategory(category)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find skills", "skills", err))
			return
		}
		h.responder.WriteData(w, skills)
	}
}

func (h skillHandler) featured() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r.URL.Query().Get("limit"), 12, 1)
		skills, err := h.skills.FindFeatured(limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find featured skills", "skills", err))
			return
		}
		h.responder.WriteData(w, skills)
	}
}

// top returns the highest-proficiency active skills.
func (h skillHandler) top() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r.URL.Query().Get("limit"), 10, 1)
		skills, err := h.skills.FindTop(limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find top skills", "skills", err))
			return
		}
		h.responder.WriteData(w, skills)
	}
}

func (h skillHandler) search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if len(query) < 2 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("q", "must be at least 2 characters"))
			return
		}

		limit := queryInt(r.URL.Query().Get("limit"), 10, 1)
		skills, err := h.skills.Search(query, limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("search skills", "skills", err))
			return
		}
		h.responder.WriteData(w, skills)
	}
}

// get returns one skill; inactive skills are invisible to the public read.
func (h skillHandler) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		if !skill.IsActive {
			h.responder.WriteError(w, errs.NewNotFoundError("skill not found"))
			return
		}
		h.responder.WriteData(w, skill)
	}
}

// create validates the full payload, pre-checks name uniqueness and inserts.
// The unique index backstops the pre-check under concurrency.
func (h skillHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.SkillInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if apiErr := input.Validate(true); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if apiErr := h.checkNameFree(*input.Name, uuid.Nil); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		skill := models.NewSkill(&input)
		if err := h.skills.Add(skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create skill", "skill", err))
			return
		}

		h.responder.WriteCreated(w, "Skill created", skill)
	}
}

// update handles both PUT (full validation) and PATCH (provided keys only).
func (h skillHandler) update(requireAll bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var input models.SkillInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if apiErr := input.Validate(requireAll); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if input.Name != nil && *input.Name != skill.Name {
			if apiErr := h.checkNameFree(*input.Name, skill.ID); apiErr != nil {
				h.responder.WriteError(w, apiErr)
				return
			}
		}

		input.Apply(skill)
		if err := h.skills.Update(skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update skill", "skill", err))
			return
		}

		h.responder.WriteMessage(w, "Skill updated", skill)
	}
}

type proficiencyUpdate struct {
	Proficiency *int `json:"proficiency"`
}

// updateProficiency sets the 1-10 proficiency; out-of-range values are
// rejected, never clamped.
func (h skillHandler) updateProficiency() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req proficiencyUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Proficiency == nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("proficiency", "is required"))
			return
		}
		if apiErr := skill.SetProficiency(*req.Proficiency); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.skills.Update(skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update skill", "skill", err))
			return
		}

		h.responder.WriteMessage(w, "Proficiency updated", skill)
	}
}

// addCertification appends one certification; duplicates are allowed.
func (h skillHandler) addCertification() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var cert models.Certification
		if err := json.NewDecoder(r.Body).Decode(&cert); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		var ve validate.Errors
		ve.Add(
			validate.Required("name", cert.Name),
			validate.Required("issuer", cert.Issuer),
		)
		if apiErr := ve.AsApiErr(); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		skill.AddCertification(cert)
		if err := h.skills.Update(skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update skill", "skill", err))
			return
		}

		h.responder.WriteMessage(w, "Certification added", skill)
	}
}

// addResource appends one learning resource; empty type falls back to
// "other".
func (h skillHandler) addResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var res models.LearningResource
		if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		var ve validate.Errors
		ve.Add(
			validate.Required("title", res.Title),
			validate.Required("url", res.URL),
		)
		if res.URL != "" {
			ve.Add(validate.URL("url", res.URL))
		}
		if res.Type != "" {
			ve.Add(validate.OneOf("type", res.Type, models.ResourceTypes))
		}
		if apiErr := ve.AsApiErr(); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		skill.AddLearningResource(res)
		if err := h.skills.Update(skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update skill", "skill", err))
			return
		}

		h.responder.WriteMessage(w, "Learning resource added", skill)
	}
}

type featuredUpdate struct {
	IsFeatured *bool `json:"isFeatured"`
}

// setFeatured flips the featured flag; the bool is required.
func (h skillHandler) setFeatured() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req featuredUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.IsFeatured == nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("isFeatured", "is required"))
			return
		}

		skill.IsFeatured = *req.IsFeatured
		if err := h.skills.Update(skill); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update skill", "skill", err))
			return
		}

		h.responder.WriteMessage(w, "Skill featured flag updated", skill)
	}
}

// delete refuses while any project still lists the skill name among its
// technologies.
func (h skillHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skill, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		referencing, err := h.projects.CountByTechnology(skill.Name)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count projects", "projects", err))
			return
		}
		if referencing > 0 {
			h.responder.WriteError(w, errs.NewConflictError(fmt.Sprintf(
				"cannot delete skill %q: %d project(s) still reference it", skill.Name, referencing)))
			return
		}

		if err := h.skills.Delete(skill.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete skill", "skill", err))
			return
		}

		h.responder.WriteMessage(w, "Skill deleted", nil)
	}
}

// stats serves the admin overview: totals, per-category breakdown,
// proficiency histogram and the five most recent skills.
func (h skillHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.skills.Stats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate skills", "skills", err))
			return
		}
		byCategory, err := h.skills.CategoryBreakdown()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate skills", "skills", err))
			return
		}
		histogram, err := h.skills.ProficiencyHistogram()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate skills", "skills", err))
			return
		}
		recent, err := h.skills.FindRecent(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recent skills", "skills", err))
			return
		}

		h.responder.WriteData(w, map[string]any{
			"stats":         stats,
			"byCategory":    byCategory,
			"byProficiency": histogram,
			"recent":        recent,
		})
	}
}

// checkNameFree enforces the global name uniqueness rule. excluding lets an
// update keep its own name.
func (h skillHandler) checkNameFree(name string, excluding uuid.UUID) *errs.ApiErr {
	existing, err := h.skills.FindByName(name)
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to check skill name", err)
	}
	if existing != nil && existing.ID != excluding {
		return errs.NewConflictError(fmt.Sprintf("a skill named %q already exists", name))
	}
	return nil
}

// load resolves the {skillID} route parameter to a row.
func (h skillHandler) load(r *http.Request) (*models.Skill, *errs.ApiErr) {
	id, err := uuid.Parse(chi.URLParam(r, "skillID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid skill id")
	}

	skill, err := h.skills.FindByID(id)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to load skill", err)
	}
	if skill == nil {
		return nil, errs.NewNotFoundError("skill not found")
	}
	return skill, nil
}
