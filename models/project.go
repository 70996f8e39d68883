package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/validate"
)

var (
	ProjectCategories   = []string{"web", "mobile", "desktop", "ai", "data", "other"}
	ProjectDifficulties = []string{"beginner", "intermediate", "advanced", "expert"}
	ProjectStatuses     = []string{"planning", "in-progress", "completed", "maintenance", "archived"}
	ProjectBudgets      = []string{"under-5k", "5k-10k", "10k-25k", "25k-50k", "50k+", "not-disclosed"}
)

type ProjectLinks struct {
	Github string `json:"github,omitempty"`
	Live   string `json:"live,omitempty"`
	Demo   string `json:"demo,omitempty"`
}

// ProjectImage is upload metadata embedded on the project record. At most
// one image is logically "main".
type ProjectImage struct {
	OriginalName string    `json:"originalName"`
	Filename     string    `json:"filename"`
	Mimetype     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	IsMain       bool      `json:"isMain"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Project is one portfolio entry.
type Project struct {
	ID              uuid.UUID                         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Title           string                            `json:"title" gorm:"type:text;not null"`
	Description     string                            `json:"description" gorm:"type:text;not null"`
	LongDescription string                            `json:"longDescription" gorm:"type:text;not null;default:''"`
	Technologies    datatypes.JSONSlice[string]       `json:"technologies" gorm:"type:jsonb;not null"`
	Category        string                            `json:"category" gorm:"type:text;not null;index"`
	Difficulty      string                            `json:"difficulty" gorm:"type:text;not null;default:intermediate;index"`
	Status          string                            `json:"status" gorm:"type:text;not null;default:completed;index"`
	Links           datatypes.JSONType[ProjectLinks]  `json:"links" gorm:"type:jsonb"`
	EstimatedHours  *int                              `json:"estimatedHours,omitempty"`
	TeamSize        *int                              `json:"teamSize,omitempty"`
	Budget          string                            `json:"budget,omitempty" gorm:"type:text"`
	Images          datatypes.JSONSlice[ProjectImage] `json:"images" gorm:"type:jsonb"`
	StartDate       *time.Time                        `json:"startDate,omitempty"`
	EndDate         *time.Time                        `json:"endDate,omitempty"`
	IsPublic        bool                              `json:"isPublic" gorm:"not null;default:true;index"`
	IsFeatured      bool                              `json:"isFeatured" gorm:"not null;default:false;index"`
	Views           int64                             `json:"views" gorm:"not null;default:0"`
	Likes           int64                             `json:"likes" gorm:"not null;default:0"`
	CreatedAt       time.Time                         `json:"createdAt"`
	UpdatedAt       time.Time                         `json:"updatedAt"`
}

// ProjectInput is the create/replace/patch payload. Pointer fields
// distinguish "absent" from zero so PATCH applies only provided keys. The
// record id and timestamps are deliberately not representable here.
type ProjectInput struct {
	Title           *string        `json:"title"`
	Description     *string        `json:"description"`
	LongDescription *string        `json:"longDescription"`
	Technologies    *[]string      `json:"technologies"`
	Category        *string        `json:"category"`
	Difficulty      *string        `json:"difficulty"`
	Status          *string        `json:"status"`
	Links           *ProjectLinks  `json:"links"`
	EstimatedHours  *int           `json:"estimatedHours"`
	TeamSize        *int           `json:"teamSize"`
	Budget          *string        `json:"budget"`
	Images          *[]ProjectImage `json:"images"`
	StartDate       *time.Time     `json:"startDate"`
	EndDate         *time.Time     `json:"endDate"`
	IsPublic        *bool          `json:"isPublic"`
	IsFeatured      *bool          `json:"isFeatured"`
}

// Validate checks the payload. With requireAll (create and PUT) the required
// fields must be present; otherwise (PATCH) only provided fields are checked.
func (in *ProjectInput) Validate(requireAll bool) *errs.ApiErr {
	var ve validate.Errors

	if in.Title != nil {
		ve.Add(validate.Length("title", *in.Title, 3, 100))
	} else if requireAll {
		ve.Add(&errs.FieldError{Field: "title", Message: "is required"})
	}

	if in.Description != nil {
		ve.Add(validate.Length("description", *in.Description, 10, 500))
	} else if requireAll {
		ve.Add(&errs.FieldError{Field: "description", Message: "is required"})
	}

	if in.LongDescription != nil {
		ve.Add(validate.MaxLength("longDescription", *in.LongDescription, 2000))
	}

	if in.Technologies != nil {
		if len(*in.Technologies) == 0 {
			ve.Add(&errs.FieldError{Field: "technologies", Message: "at least one technology is required"})
		}
		for _, tech := range *in.Technologies {
			if fe := validate.Length("technologies", tech, 1, 50); fe != nil {
				ve.Add(fe)
				break
			}
		}
	} else if requireAll {
		ve.Add(&errs.FieldError{Field: "technologies", Message: "at least one technology is required"})
	}

	if in.Category != nil {
		ve.Add(validate.OneOf("category", *in.Category, ProjectCategories))
	} else if requireAll {
		ve.Add(&errs.FieldError{Field: "category", Message: "is required"})
	}

	if in.Difficulty != nil {
		ve.Add(validate.OneOf("difficulty", *in.Difficulty, ProjectDifficulties))
	}
	if in.Status != nil {
		ve.Add(validate.OneOf("status", *in.Status, ProjectStatuses))
	}
	if in.Budget != nil {
		ve.Add(validate.OneOf("budget", *in.Budget, ProjectBudgets))
	}

	if in.Links != nil {
		if in.Links.Github != "" {
			ve.Add(validate.URL("links.github", in.Links.Github))
		}
		if in.Links.Live != "" {
			ve.Add(validate.URL("links.live", in.Links.Live))
		}
		if in.Links.Demo != "" {
			ve.Add(validate.URL("links.demo", in.Links.Demo))
		}
	}

	if in.EstimatedHours != nil {
		ve.Add(validate.MinInt("estimatedHours", *in.EstimatedHours, 0))
	}
	if in.TeamSize != nil {
		ve.Add(validate.MinInt("teamSize", *in.TeamSize, 1))
	}

	return ve.AsApiErr()
}

// Apply copies the provided fields onto the record. Both PUT and PATCH use
// this; they differ only in what Validate required.
func (in *ProjectInput) Apply(p *Project) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.LongDescription != nil {
		p.LongDescription = *in.LongDescription
	}
	if in.Technologies != nil {
		p.Technologies = datatypes.NewJSONSlice(*in.Technologies)
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Difficulty != nil {
		p.Difficulty = *in.Difficulty
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Links != nil {
		p.Links = datatypes.NewJSONType(*in.Links)
	}
	if in.EstimatedHours != nil {
		p.EstimatedHours = in.EstimatedHours
	}
	if in.TeamSize != nil {
		p.TeamSize = in.TeamSize
	}
	if in.Budget != nil {
		p.Budget = *in.Budget
	}
	if in.Images != nil {
		p.Images = datatypes.NewJSONSlice(*in.Images)
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
	}
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
}

// NewProject builds a record from a fully validated create payload.
// StartDate defaults to now when omitted.
func NewProject(in *ProjectInput, now time.Time) *Project {
	p := &Project{
		Difficulty: "intermediate",
		Status:     "completed",
		IsPublic:   true,
	}
	in.Apply(p)
	if p.StartDate == nil {
		p.StartDate = &now
	}
	return p
}

// IsValidProjectCategory checks membership in the category enum.
func IsValidProjectCategory(category string) bool {
	for _, c := range ProjectCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ProjectStats is the admin stats overview payload.
type ProjectStats struct {
	Total      int64 `json:"total"`
	Public     int64 `json:"public"`
	Private    int64 `json:"private"`
	Featured   int64 `json:"featured"`
	TotalViews int64 `json:"totalViews"`
	TotalLikes int64 `json:"totalLikes"`
}

// GroupCount is one bucket of a grouped count query.
type GroupCount struct {
	Key   string `json:"key" gorm:"column:key"`
	Count int64  `json:"count" gorm:"column:count"`
}
