package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/validate"
)

var (
	SkillCategories   = []string{"frontend", "backend", "database", "devops", "design", "mobile", "ai", "other"}
	ResourceTypes     = []string{"article", "video", "course", "book", "other"}
)

// Proficiency bounds. Values outside are rejected, never clamped.
const (
	MinProficiency = 1
	MaxProficiency = 10
)

type Certification struct {
	Name         string     `json:"name"`
	Issuer       string     `json:"issuer"`
	Date         *time.Time `json:"date,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	CredentialID string     `json:"credentialId,omitempty"`
}

type LearningResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

// Skill is one capability entry. Name is globally unique; the unique index
// backstops the check-then-write in the handler.
type Skill struct {
	ID                uuid.UUID                             `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name              string                                `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Category          string                                `json:"category" gorm:"type:text;not null;index"`
	Proficiency       int                                   `json:"proficiency" gorm:"not null"`
	YearsOfExperience int                                   `json:"yearsOfExperience" gorm:"not null;default:0"`
	Description       string                                `json:"description" gorm:"type:text;not null;default:''"`
	Icon              string                                `json:"icon,omitempty" gorm:"type:text"`
	Color             string                                `json:"color,omitempty" gorm:"type:text"`
	Order             int                                   `json:"order" gorm:"column:sort_order;not null;default:0;index"`
	Tags              datatypes.JSONSlice[string]           `json:"tags" gorm:"type:jsonb"`
	IsActive          bool                                  `json:"isActive" gorm:"not null;default:true;index"`
	IsFeatured        bool                                  `json:"isFeatured" gorm:"not null;default:false;index"`
	Certifications    datatypes.JSONSlice[Certification]    `json:"certifications" gorm:"type:jsonb"`
	LearningResources datatypes.JSONSlice[LearningResource] `json:"learningResources" gorm:"type:jsonb"`
	CreatedAt         time.Time                             `json:"createdAt"`
	UpdatedAt         time.Time                             `json:"updatedAt"`
}

// SkillInput is the create/update/patch payload; pointer fields distinguish
// absent from zero.
type SkillInput struct {
	Name              *string   `json:"name"`
	Category          *string   `json:"category"`
	Proficiency       *int      `json:"proficiency"`
	YearsOfExperience *int      `json:"yearsOfExperience"`
	Description       *string   `json:"description"`
	Icon              *string   `json:"icon"`
	Color             *string   `json:"color"`
	Order             *int      `json:"order"`
	Tags              *[]string `json:"tags"`
	IsActive          *bool     `json:"isActive"`
	IsFeatured        *bool     `json:"isFeatured"`
}

func (in *SkillInput) Validate(requireAll bool) *errs.ApiErr {
	var ve validate.Errors

	if in.Name != nil {
		ve.Add(validate.Length("name", *in.Name, 2, 50))
	} else if requireAll {
		ve.Add(&errs.FieldError{Field: "name", Message: "is required"})
	}

	if in.Category != nil {
		ve.Add(validate.OneOf("category", *in.Category, SkillCategories))
	} else if requireAll {
		ve.Add(&errs.FieldError{Field: "category", Message: "is required"})
	}

	if in.Proficiency != nil {
		ve.Add(validate.IntRange("proficiency", *in.Proficiency, MinProficiency, MaxProficiency))
	} else if requireAll {
		ve.Add(&errs.FieldError{Field: "proficiency", Message: "is required"})
	}

	if in.YearsOfExperience != nil {
		ve.Add(validate.MinInt("yearsOfExperience", *in.YearsOfExperience, 0))
	}
	if in.Description != nil {
		ve.Add(validate.MaxLength("description", *in.Description, 300))
	}
	if in.Icon != nil {
		ve.Add(validate.Length("icon", *in.Icon, 1, 100))
	}
	if in.Color != nil {
		ve.Add(validate.HexColor("color", *in.Color))
	}
	if in.Order != nil {
		ve.Add(validate.MinInt("order", *in.Order, 0))
	}
	if in.Tags != nil {
		for _, tag := range *in.Tags {
			if fe := validate.Length("tags", tag, 1, 30); fe != nil {
				ve.Add(fe)
				break
			}
		}
	}

	return ve.AsApiErr()
}

func (in *SkillInput) Apply(s *Skill) {
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.Proficiency != nil {
		s.Proficiency = *in.Proficiency
	}
	if in.YearsOfExperience != nil {
		s.YearsOfExperience = *in.YearsOfExperience
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.Icon != nil {
		s.Icon = *in.Icon
	}
	if in.Color != nil {
		s.Color = *in.Color
	}
	if in.Order != nil {
		s.Order = *in.Order
	}
	if in.Tags != nil {
		s.Tags = datatypes.NewJSONSlice(*in.Tags)
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		s.IsFeatured = *in.IsFeatured
	}
}

// NewSkill builds a record from a fully validated create payload.
func NewSkill(in *SkillInput) *Skill {
	s := &Skill{IsActive: true}
	in.Apply(s)
	return s
}

// SetProficiency rejects values outside [MinProficiency, MaxProficiency].
func (s *Skill) SetProficiency(value int) *errs.ApiErr {
	if value < MinProficiency || value > MaxProficiency {
		return errs.NewInvalidFieldError("proficiency", "must be between 1 and 10")
	}
	s.Proficiency = value
	return nil
}

// AddCertification appends without dedup.
func (s *Skill) AddCertification(cert Certification) {
	s.Certifications = append(s.Certifications, cert)
}

// AddLearningResource appends without dedup; empty type falls back to
// "other".
func (s *Skill) AddLearningResource(res LearningResource) {
	if res.Type == "" {
		res.Type = "other"
	}
	s.LearningResources = append(s.LearningResources, res)
}

// IsValidSkillCategory checks membership in the category enum.
func IsValidSkillCategory(category string) bool {
	for _, c := range SkillCategories {
		if c == category {
			return true
		}
	}
	return false
}

// SkillStats is the admin stats overview payload.
type SkillStats struct {
	Total           int64   `json:"total"`
	Active          int64   `json:"active"`
	Featured        int64   `json:"featured"`
	AvgProficiency  float64 `json:"avgProficiency"`
	TotalExperience int64   `json:"totalExperience"`
}

// CategoryProficiency is one bucket of the per-category skill breakdown.
type CategoryProficiency struct {
	Key            string  `json:"key" gorm:"column:key"`
	Count          int64   `json:"count" gorm:"column:count"`
	AvgProficiency float64 `json:"avgProficiency" gorm:"column:avg_proficiency"`
}
