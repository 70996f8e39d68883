package api

import (
	"github.com/saadraza/portfolio-backend/auth"
	"github.com/saadraza/portfolio-backend/database"
	"github.com/saadraza/portfolio-backend/services"
)

type routeHandlers struct {
	authHandler    authHandler
	contactHandler contactHandler
	projectHandler projectHandler
	skillHandler   skillHandler
	uploadHandler  uploadHandler
}

// initializeHandlers creates all handlers against the shared repositories.
func initializeHandlers(
	db database.Database,
	mailer *services.Mailer,
	tokens *auth.TokenManager,
	bcryptCost int,
	uploadDir string,
	maxUploadSize int64,
) *routeHandlers {
	return &routeHandlers{
		authHandler:    newAuthHandler(db.UserRepo(), tokens, bcryptCost),
		contactHandler: newContactHandler(db.ContactRepo(), mailer),
		projectHandler: newProjectHandler(db.ProjectRepo()),
		skillHandler:   newSkillHandler(db.SkillRepo(), db.ProjectRepo()),
		uploadHandler:  newUploadHandler(uploadDir, maxUploadSize),
	}
}
