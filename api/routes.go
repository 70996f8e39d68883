package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saadraza/portfolio-backend/models"
)

// setupRoutes wires the full route table. Public reads sit behind
// OptionalAuth so privileged callers get unscoped results; writes are gated
// by RequireAuth plus the named permission.
func setupRoutes(r chi.Router, handlers *routeHandlers, am authMiddleware, limiter *rateLimiter, uploadDir string) {
	r.Get("/health", healthCheck)

	// Public contact form, rate limited per IP
	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit)
		r.Post("/contact/submit", handlers.contactHandler.submit())
	})

	// Auth gate
	r.Post("/auth/login", handlers.authHandler.login())
	r.Group(func(r chi.Router) {
		r.Use(am.RequireAuth)
		r.Get("/auth/me", handlers.authHandler.me())
		r.Post("/auth/change-password", handlers.authHandler.changePassword())
	})

	// Contact administration
	r.Group(func(r chi.Router) {
		r.Use(am.RequireAuth, am.RequirePermission(models.PermManageContacts))
		r.Get("/contact", handlers.contactHandler.list())
		r.Get("/contact/stats", handlers.contactHandler.stats())
		r.Get("/contact/{contactID}", handlers.contactHandler.get())
		r.Patch("/contact/{contactID}/status", handlers.contactHandler.setStatus())
		r.Patch("/contact/{contactID}/spam", handlers.contactHandler.setSpam())
		r.Delete("/contact/{contactID}", handlers.contactHandler.delete())
	})

	// Project reads (public, privilege-aware)
	r.Group(func(r chi.Router) {
		r.Use(am.OptionalAuth)
		r.Get("/projects", handlers.projectHandler.list())
		r.Get("/projects/featured", handlers.projectHandler.featured())
		r.Get("/projects/category/{category}", handlers.projectHandler.byCategory())
		r.Get("/projects/search", handlers.projectHandler.search())
		r.Get("/projects/{projectID}", handlers.projectHandler.get())
	})
	r.Group(func(r chi.Router) {
		r.Use(am.RequireAuth)
		r.Post("/projects/{projectID}/like", handlers.projectHandler.like())
	})

	// Project administration
	r.Group(func(r chi.Router) {
		r.Use(am.RequireAuth, am.RequirePermission(models.PermManageProjects))
		r.Post("/projects", handlers.projectHandler.create())
		r.Put("/projects/{projectID}", handlers.projectHandler.update(true))
		r.Patch("/projects/{projectID}", handlers.projectHandler.update(false))
		r.Delete("/projects/{projectID}", handlers.projectHandler.delete())
		r.Get("/projects/stats/overview", handlers.projectHandler.stats())
	})

	// Skill reads (public)
	r.Get("/skills", handlers.skillHandler.list())
	r.Get("/skills/category/{category}", handlers.skillHandler.byCategory())
	r.Get("/skills/featured", handlers.skillHandler.featured())
	r.Get("/skills/top", handlers.skillHandler.top())
	r.Get("/skills/search", handlers.skillHandler.search())
	r.Get("/skills/{skillID}", handlers.skillHandler.get())

	// Skill administration
	r.Group(func(r chi.Router) {
		r.Use(am.RequireAuth, am.RequirePermission(models.PermManageSkills))
		r.Post("/skills", handlers.skillHandler.create())
		r.Put("/skills/{skillID}", handlers.skillHandler.update(true))
		r.Patch("/skills/{skillID}", handlers.skillHandler.update(false))
		r.Patch("/skills/{skillID}/proficiency", handlers.skillHandler.updateProficiency())
		r.Patch("/skills/{skillID}/featured", handlers.skillHandler.setFeatured())
		r.Post("/skills/{skillID}/certifications", handlers.skillHandler.addCertification())
		r.Post("/skills/{skillID}/resources", handlers.skillHandler.addResource())
		r.Delete("/skills/{skillID}", handlers.skillHandler.delete())
		r.Get("/skills/stats/overview", handlers.skillHandler.stats())
	})

	// Upload surface
	r.Group(func(r chi.Router) {
		r.Use(am.RequireAuth, am.RequirePermission(models.PermUploadFiles))
		r.Post("/upload/single", handlers.uploadHandler.single())
		r.Post("/upload/multiple", handlers.uploadHandler.multiple())
		r.Post("/upload/project", handlers.uploadHandler.project())
		r.Post("/upload/profile", handlers.uploadHandler.profile())
		r.Get("/upload/list", handlers.uploadHandler.list())
		r.Get("/upload/info/{filename}", handlers.uploadHandler.info())
		r.Delete("/upload/{filename}", handlers.uploadHandler.delete())
	})

	// Static serving of stored uploads
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"success":true,"message":"OK"}`))
}
