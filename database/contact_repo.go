package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saadraza/portfolio-backend/models"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// ContactFilter describes the admin list query.
type ContactFilter struct {
	Status    string // skipped when empty or "all"
	IsSpam    *bool
	Search    string // substring match over name/email/subject/message
	SortBy    string
	SortOrder string // "asc" | "desc"
	Page      int
	Limit     int
}

// contactSortColumns whitelists sortable fields; anything else falls back
// to created_at.
var contactSortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"subject":   "subject",
	"status":    "status",
	"isSpam":    "is_spam",
	"repliedAt": "replied_at",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *ContactRepo) Add(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

// FindByID returns a contact by id, or nil when no such row exists.
func (r *ContactRepo) FindByID(id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.First(&contact, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindFiltered returns one page of contacts plus the total row count for
// the filter.
func (r *ContactRepo) FindFiltered(filter ContactFilter) ([]*models.Contact, int64, error) {
	q := r.db.Model(&models.Contact{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.IsSpam != nil {
		q = q.Where("is_spam = ?", *filter.IsSpam)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(
			"name ILIKE ? OR email ILIKE ? OR subject ILIKE ? OR message ILIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []*models.Contact
	err := q.
		Order(orderClause(contactSortColumns, filter.SortBy, filter.SortOrder)).
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&contacts).Error
	return contacts, total, err
}

func (r *ContactRepo) Update(contact *models.Contact) error {
	return r.db.Save(contact).Error
}

func (r *ContactRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Contact{}, "id = ?", id).Error
}

// Stats computes total, per-status and spam counts from the live collection.
func (r *ContactRepo) Stats() (*models.ContactStats, error) {
	var rows []models.GroupCount
	err := r.db.Model(&models.Contact{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.ContactStats{}
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Key {
		case models.ContactStatusNew:
			stats.New = row.Count
		case models.ContactStatusRead:
			stats.Read = row.Count
		case models.ContactStatusReplied:
			stats.Replied = row.Count
		case models.ContactStatusArchived:
			stats.Archived = row.Count
		}
	}

	err = r.db.Model(&models.Contact{}).Where("is_spam = ?", true).Count(&stats.Spam).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// FindRecent returns the newest contacts for the stats dashboard.
func (r *ContactRepo) FindRecent(limit int) ([]*models.Contact, error) {
	var contacts []*models.Contact
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&contacts).Error
	return contacts, err
}

// orderClause builds a safe ORDER BY from a whitelist; unknown fields sort
// by created_at.
func orderClause(allowed map[string]string, sortBy, sortOrder string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = "created_at"
	}
	if sortOrder == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}
