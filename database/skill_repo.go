package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saadraza/portfolio-backend/models"
)

type SkillRepo struct {
	db *gorm.DB
}

func NewSkillRepo(db *gorm.DB) *SkillRepo {
	return &SkillRepo{db}
}

// SkillFilter describes the public list query. Skill lists are small and
// served unpaginated, as is the sort default (order asc).
type SkillFilter struct {
	ActiveOnly bool
	Category   string // skipped when empty or "all"
	Featured   *bool
	Search     string
	SortBy     string
	SortOrder  string
}

var skillSortColumns = map[string]string{
	"name":              "name",
	"category":          "category",
	"proficiency":       "proficiency",
	"yearsOfExperience": "years_of_experience",
	"order":             "sort_order",
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
}

func (r *SkillRepo) Add(skill *models.Skill) error {
	return r.db.Create(skill).Error
}

// FindByID returns a skill by id, or nil when no such row exists.
func (r *SkillRepo) FindByID(id uuid.UUID) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.First(&skill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// FindByName resolves a skill by exact name; used by the uniqueness
// pre-check before create/update.
func (r *SkillRepo) FindByName(name string) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.Where("name = ?", name).First(&skill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// FindFiltered returns skills matching the public list query.
func (r *SkillRepo) FindFiltered(filter SkillFilter) ([]*models.Skill, error) {
	q := r.db.Model(&models.Skill{})

	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Category != "" && filter.Category != "all" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Featured != nil {
		q = q.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(
			"name ILIKE ? OR description ILIKE ? OR tags::text ILIKE ?",
			like, like, like,
		)
	}

	sortBy := filter.SortBy
	sortOrder := filter.SortOrder
	if sortBy == "" {
		sortBy = "order"
		if sortOrder == "" {
			sortOrder = "asc"
		}
	}

	var skills []*models.Skill
	err := q.Order(orderClause(skillSortColumns, sortBy, sortOrder)).Find(&skills).Error
	return skills, err
}

// FindByCategory returns active skills in one category, in display order.
func (r *SkillRepo) FindByCategory(category string) ([]*models.Skill, error) {
	var skills []*models.Skill
	err := r.db.
		Where("is_active = ? AND category = ?", true, category).
		Order("sort_order ASC, name ASC").
		Find(&skills).Error
	return skills, err
}

// FindFeatured returns active featured skills in display order.
func (r *SkillRepo) FindFeatured(limit int) ([]*models.Skill, error) {
	var skills []*models.Skill
	err := r.db.
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("sort_order ASC").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

// FindTop returns active skills by proficiency, experience breaking ties.
func (r *SkillRepo) FindTop(limit int) ([]*models.Skill, error) {
	var skills []*models.Skill
	err := r.db.
		Where("is_active = ?", true).
		Order("proficiency DESC, years_of_experience DESC").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

// Search matches active skills against name, description and tags.
func (r *SkillRepo) Search(query string, limit int) ([]*models.Skill, error) {
	like := "%" + query + "%"
	var skills []*models.Skill
	err := r.db.
		Where("is_active = ?", true).
		Where("name ILIKE ? OR description ILIKE ? OR tags::text ILIKE ?", like, like, like).
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

func (r *SkillRepo) Update(skill *models.Skill) error {
	return r.db.Save(skill).Error
}

func (r *SkillRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Skill{}, "id = ?", id).Error
}

// Stats computes the admin overview aggregates.
func (r *SkillRepo) Stats() (*models.SkillStats, error) {
	stats := &models.SkillStats{}
	err := r.db.Model(&models.Skill{}).
		Select(
			"COUNT(*) AS total, " +
				"COUNT(*) FILTER (WHERE is_active) AS active, " +
				"COUNT(*) FILTER (WHERE is_featured) AS featured, " +
				"COALESCE(AVG(proficiency), 0) AS avg_proficiency, " +
				"COALESCE(SUM(years_of_experience), 0) AS total_experience",
		).
		Scan(stats).Error
	return stats, err
}

// CategoryBreakdown groups skills by category with average proficiency.
func (r *SkillRepo) CategoryBreakdown() ([]models.CategoryProficiency, error) {
	var rows []models.CategoryProficiency
	err := r.db.Model(&models.Skill{}).
		Select("category AS key, COUNT(*) AS count, AVG(proficiency) AS avg_proficiency").
		Group("category").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// ProficiencyHistogram counts skills per proficiency value.
func (r *SkillRepo) ProficiencyHistogram() ([]models.GroupCount, error) {
	var rows []models.GroupCount
	err := r.db.Model(&models.Skill{}).
		Select("proficiency::text AS key, COUNT(*) AS count").
		Group("proficiency").
		Order("proficiency ASC").
		Scan(&rows).Error
	return rows, err
}

// FindRecent returns the newest skills for the stats dashboard.
func (r *SkillRepo) FindRecent(limit int) ([]*models.Skill, error) {
	var skills []*models.Skill
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&skills).Error
	return skills, err
}

// Count returns the number of skill rows; used by the seed path.
func (r *SkillRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Skill{}).Count(&n).Error
	return n, err
}
