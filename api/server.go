package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/saadraza/portfolio-backend/auth"
	"github.com/saadraza/portfolio-backend/config"
	"github.com/saadraza/portfolio-backend/database"
	"github.com/saadraza/portfolio-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database, mailer *services.Mailer) (Server, error) {
	c := config.New()

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	jwtSecret := config.GetString(c, "JWT_SECRET", "")
	if jwtSecret == "" {
		return Server{}, fmt.Errorf("JWT_SECRET is required")
	}
	jwtTTL := time.Duration(config.GetInt(c, "JWT_EXPIRY_HOURS", 168)) * time.Hour
	tokens := auth.NewTokenManager(jwtSecret, jwtTTL)

	startupTime := time.Now()
	router := newRouter(db, mailer, tokens, c)

	readTimeout := config.GetDuration(c, "READ_TIMEOUT_SECONDS", 60*time.Second)
	writeTimeout := config.GetDuration(c, "WRITE_TIMEOUT_SECONDS", 60*time.Second)
	idleTimeout := config.GetDuration(c, "IDLE_TIMEOUT_SECONDS", 120*time.Second)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

func newRouter(db database.Database, mailer *services.Mailer, tokens *auth.TokenManager, c map[string]string) *chi.Mux {
	chiRouter := chi.NewRouter()
	chiRouter.Use(RecoverMiddleware)
	chiRouter.Use(HTTPLoggingMiddleware)

	allowedOrigins := strings.Split(config.GetString(c, "ACCEPTED_ORIGINS", "*"), ",")
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	bcryptCost := config.GetInt(c, "BCRYPT_COST", 12)
	uploadDir := config.GetString(c, "UPLOAD_DIR", "uploads")
	maxUploadSize := int64(config.GetInt(c, "MAX_FILE_SIZE_MB", 5)) * 1024 * 1024

	handlers := initializeHandlers(db, mailer, tokens, bcryptCost, uploadDir, maxUploadSize)
	authMiddleware := newAuthMiddleware(tokens, db.UserRepo())

	contactLimit := config.GetInt(c, "CONTACT_RATE_LIMIT", 5)
	contactWindow := config.GetDuration(c, "CONTACT_RATE_WINDOW_SECONDS", 15*time.Minute)
	limiter := newRateLimiter(contactLimit, contactWindow)

	setupRoutes(chiRouter, handlers, authMiddleware, limiter, uploadDir)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
