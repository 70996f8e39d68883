package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/saadraza/portfolio-backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ProjectFilter describes the list query. PublicOnly is forced on for
// unauthenticated and non-manager callers.
type ProjectFilter struct {
	PublicOnly bool
	Category   string // skipped when empty or "all"
	Difficulty string
	Status     string
	Featured   *bool
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

var projectSortColumns = map[string]string{
	"title":      "title",
	"category":   "category",
	"difficulty": "difficulty",
	"status":     "status",
	"views":      "views",
	"likes":      "likes",
	"isFeatured": "is_featured",
	"startDate":  "start_date",
	"endDate":    "end_date",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID returns a project by id, or nil when no such row exists.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindFiltered returns one page of projects plus the total row count.
func (r *ProjectRepo) FindFiltered(filter ProjectFilter) ([]*models.Project, int64, error) {
	q := r.db.Model(&models.Project{})

	if filter.PublicOnly {
		q = q.Where("is_public = ?", true)
	}
	if filter.Category != "" && filter.Category != "all" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" && filter.Difficulty != "all" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Featured != nil {
		q = q.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(
			"title ILIKE ? OR description ILIKE ? OR long_description ILIKE ? OR technologies::text ILIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*models.Project
	err := q.
		Order(orderClause(projectSortColumns, filter.SortBy, filter.SortOrder)).
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&projects).Error
	return projects, total, err
}

// FindFeatured returns the newest public featured projects.
func (r *ProjectRepo) FindFeatured(limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.
		Where("is_public = ? AND is_featured = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// FindByCategory returns the newest public projects in one category.
func (r *ProjectRepo) FindByCategory(category string, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.
		Where("is_public = ? AND category = ?", true, category).
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

// Search matches public projects against the designated text fields.
func (r *ProjectRepo) Search(query string, limit int) ([]*models.Project, error) {
	like := "%" + query + "%"
	var projects []*models.Project
	err := r.db.
		Where("is_public = ?", true).
		Where(
			"title ILIKE ? OR description ILIKE ? OR long_description ILIKE ? OR technologies::text ILIKE ?",
			like, like, like, like,
		).
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}

// IncrementViews adds one view atomically. Counters only ever grow through
// this path.
func (r *ProjectRepo) IncrementViews(id uuid.UUID) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// IncrementLikes adds one like atomically and returns the new count.
func (r *ProjectRepo) IncrementLikes(id uuid.UUID) (int64, error) {
	err := r.db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	if err != nil {
		return 0, err
	}

	var likes int64
	err = r.db.Model(&models.Project{}).
		Where("id = ?", id).
		Pluck("likes", &likes).Error
	return likes, err
}

// CountByTechnology counts projects whose technologies list contains the
// given name by exact string match. Used by the skill-delete integrity
// check.
func (r *ProjectRepo) CountByTechnology(name string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Project{}).
		Where(datatypes.JSONArrayQuery("technologies").Contains(name)).
		Count(&n).Error
	return n, err
}

// Stats computes the admin overview aggregates.
func (r *ProjectRepo) Stats() (*models.ProjectStats, error) {
	stats := &models.ProjectStats{}
	err := r.db.Model(&models.Project{}).
		Select(
			"COUNT(*) AS total, " +
				"COUNT(*) FILTER (WHERE is_public) AS public, " +
				"COUNT(*) FILTER (WHERE NOT is_public) AS private, " +
				"COUNT(*) FILTER (WHERE is_featured) AS featured, " +
				"COALESCE(SUM(views), 0) AS total_views, " +
				"COALESCE(SUM(likes), 0) AS total_likes",
		).
		Scan(stats).Error
	return stats, err
}

// CountByColumn groups project rows by one enum column.
func (r *ProjectRepo) CountByColumn(column string) ([]models.GroupCount, error) {
	// column is caller-supplied from a fixed set, never user input
	var rows []models.GroupCount
	err := r.db.Model(&models.Project{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// Count returns the number of project rows; used by the seed path.
func (r *ProjectRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Project{}).Count(&n).Error
	return n, err
}

// FindRecent returns the newest projects for the stats dashboard.
func (r *ProjectRepo) FindRecent(limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}
