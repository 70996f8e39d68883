package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saadraza/portfolio-backend/auth"
	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/models"
)

// userStore is the slice of the user repo the auth handler needs.
type userStore interface {
	FindByID(id uuid.UUID) (*models.User, error)
	FindByCredentials(identifier string) (*models.User, error)
	Update(user *models.User) error
}

type authHandler struct {
	responder  Responder
	logger     zerolog.Logger
	users      userStore
	tokens     *auth.TokenManager
	bcryptCost int
}

func newAuthHandler(users userStore, tokens *auth.TokenManager, bcryptCost int) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// login authenticates with a username or email plus password. Failed
// attempts are counted and the account locks at the threshold.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		identifier := req.Username
		if identifier == "" {
			identifier = req.Email
		}
		if identifier == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewValidationError([]errs.FieldError{
				{Field: "username", Message: "username or email is required"},
				{Field: "password", Message: "is required"},
			}))
			return
		}

		user, err := h.users.FindByCredentials(identifier)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}
		if user.IsLocked {
			h.responder.WriteError(w, errs.NewAccountLockedError())
			return
		}
		if !user.IsActive {
			h.responder.WriteError(w, errs.NewAccountInactiveError())
			return
		}

		if !user.ComparePassword(req.Password) {
			user.RegisterFailedLogin()
			if err := h.users.Update(user); err != nil {
				h.logger.Error().Err(err).Msg("failed to persist login attempt")
			}
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		user.ResetLoginAttempts()
		user.TouchLastLogin(time.Now())
		if err := h.users.Update(user); err != nil {
			h.logger.Error().Err(err).Msg("failed to persist successful login")
		}

		token, err := h.tokens.Generate(user.ID, user.Role)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue token", err))
			return
		}

		h.responder.WriteMessage(w, "Login successful", loginResponse{Token: token, User: user})
	}
}

// me returns the user the auth gate resolved for this request.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteData(w, ctxGetUser(r.Context()))
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// changePassword verifies the current password and rehashes the new one.
func (h authHandler) changePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxGetUser(r.Context())

		var req changePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.CurrentPassword == "" {
			h.responder.WriteError(w, errs.NewInvalidFieldError("currentPassword", "is required"))
			return
		}
		if len(req.NewPassword) < models.MinPasswordLength {
			h.responder.WriteError(w, errs.NewInvalidFieldError("newPassword", "must be at least 8 characters"))
			return
		}
		if !user.ComparePassword(req.CurrentPassword) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("currentPassword", "is incorrect"))
			return
		}

		if err := user.SetPassword(req.NewPassword, h.bcryptCost); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}
		if err := h.users.Update(user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update user", "user", err))
			return
		}

		h.responder.WriteMessage(w, "Password changed successfully", nil)
	}
}
