package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/saadraza/portfolio-backend/models"
)

// SeedOptions carries the provisioning inputs read from the environment.
type SeedOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	BcryptCost    int
	WithSamples   bool
}

// adminPermissions is the full permission list granted to the provisioned
// admin account.
var adminPermissions = []string{
	models.PermManageUsers,
	models.PermManageProjects,
	models.PermManageSkills,
	models.PermManageContacts,
	models.PermViewAnalytics,
	models.PermManageContent,
	models.PermUploadFiles,
}

// Seed provisions the admin user and, optionally, sample content. Existing
// data is never overwritten; each step skips when rows already exist.
func (d Database) Seed(opts SeedOptions) error {
	if err := d.seedAdmin(opts); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if opts.WithSamples {
		if err := d.seedSkills(); err != nil {
			return fmt.Errorf("seed skills: %w", err)
		}
		if err := d.seedProjects(); err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}
	}
	return nil
}

func (d Database) seedAdmin(opts SeedOptions) error {
	count, err := d.userRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("Users already exist, skipping admin seed")
		return nil
	}
	if opts.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required to seed the admin user")
	}

	admin := &models.User{
		Username:    opts.AdminUsername,
		Email:       opts.AdminEmail,
		FirstName:   "Saad",
		LastName:    "Raza",
		Role:        models.RoleAdmin,
		Permissions: datatypes.NewJSONSlice(adminPermissions),
		IsActive:    true,
		Preferences: datatypes.NewJSONType(models.UserPreferences{
			Theme:              "system",
			Language:           "en",
			EmailNotifications: true,
		}),
	}
	if err := admin.SetPassword(opts.AdminPassword, opts.BcryptCost); err != nil {
		return err
	}
	if err := d.userRepo.Add(admin); err != nil {
		return err
	}

	log.Info().Str("email", admin.Email).Msg("Admin user created; change the password after first login")
	return nil
}

func (d Database) seedSkills() error {
	count, err := d.skillRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("Skills already exist, skipping sample seed")
		return nil
	}

	samples := []*models.Skill{
		{Name: "JavaScript", Category: "frontend", Proficiency: 9, YearsOfExperience: 5, IsActive: true, IsFeatured: true, Order: 1, Color: "#F7DF1E"},
		{Name: "React", Category: "frontend", Proficiency: 9, YearsOfExperience: 4, IsActive: true, IsFeatured: true, Order: 2, Color: "#61DAFB"},
		{Name: "Node.js", Category: "backend", Proficiency: 8, YearsOfExperience: 4, IsActive: true, IsFeatured: true, Order: 3, Color: "#339933"},
		{Name: "MongoDB", Category: "database", Proficiency: 7, YearsOfExperience: 3, IsActive: true, Order: 4, Color: "#47A248"},
		{Name: "Docker", Category: "devops", Proficiency: 6, YearsOfExperience: 2, IsActive: true, Order: 5, Color: "#2496ED"},
	}
	for _, skill := range samples {
		if err := d.skillRepo.Add(skill); err != nil {
			return err
		}
	}

	log.Info().Int("count", len(samples)).Msg("Sample skills created")
	return nil
}

func (d Database) seedProjects() error {
	count, err := d.projectRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("Projects already exist, skipping sample seed")
		return nil
	}

	now := time.Now()
	samples := []*models.Project{
		{
			Title:        "Personal Portfolio Website",
			Description:  "Full-stack portfolio site with an admin panel for content management.",
			Technologies: datatypes.NewJSONSlice([]string{"React", "Node.js", "MongoDB"}),
			Category:     "web",
			Difficulty:   "intermediate",
			Status:       "completed",
			IsPublic:     true,
			IsFeatured:   true,
			StartDate:    &now,
		},
		{
			Title:        "Task Tracker API",
			Description:  "REST API for collaborative task management with role-based access.",
			Technologies: datatypes.NewJSONSlice([]string{"Node.js", "MongoDB"}),
			Category:     "web",
			Difficulty:   "intermediate",
			Status:       "maintenance",
			IsPublic:     true,
			StartDate:    &now,
		},
	}
	for _, project := range samples {
		if err := d.projectRepo.Add(project); err != nil {
			return err
		}
	}

	log.Info().Int("count", len(samples)).Msg("Sample projects created")
	return nil
}
