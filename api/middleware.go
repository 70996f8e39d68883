package api

import (
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/saadraza/portfolio-backend/auth"
	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/models"
)

// userResolver is the slice of the user store the auth middleware needs.
type userResolver interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

type authMiddleware struct {
	responder Responder
	tokens    *auth.TokenManager
	users     userResolver
}

func newAuthMiddleware(tokens *auth.TokenManager, users userResolver) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		tokens:    tokens,
		users:     users,
	}
}

// resolveUser turns a bearer token into a live user row. Locked and
// deactivated accounts fail resolution even with a valid token.
func (m authMiddleware) resolveUser(r *http.Request) (*models.User, error) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errs.NewMissingTokenError()
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims, err := m.tokens.Parse(tokenStr)
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError()
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, errs.NewInvalidTokenError()
	}

	user, err := m.users.FindByID(userID)
	if err != nil {
		return nil, wrapDatabaseError("find user", "user", err)
	}
	if user == nil {
		return nil, errs.NewInvalidTokenError()
	}
	if user.IsLocked {
		return nil, errs.NewAccountLockedError()
	}
	if !user.IsActive {
		return nil, errs.NewAccountInactiveError()
	}
	return user, nil
}

// RequireAuth rejects requests without a valid token and usable account.
func (m authMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolveUser(r)
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithUser(r.Context(), user)))
	})
}

// OptionalAuth resolves the user when a valid token is present; absence or
// invalidity is non-fatal and the request proceeds anonymous.
func (m authMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.resolveUser(r); err == nil {
			r = r.WithContext(ctxWithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission guards a route with one named permission. Must run after
// RequireAuth; the check is a pure function of the already-loaded user.
func (m authMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := ctxGetUser(r.Context())
			if user == nil {
				m.responder.WriteError(w, errs.NewMissingTokenError())
				return
			}
			if !user.HasPermission(permission) {
				m.responder.WriteError(w, errs.NewMissingPermissionError(permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

// RecoverMiddleware converts panics into logged 500 responses and logs any
// 500 a handler set itself.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// HTTPLoggingMiddleware logs one line per request, level keyed off the
// response class.
func HTTPLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}
		start := time.Now()

		next.ServeHTTP(srw, r)

		event := log.Info()
		switch {
		case srw.status >= 500:
			event = log.Error()
		case srw.status >= 400:
			event = log.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// rateLimiter caps requests per client IP inside a rolling window. Counters
// live in an expiring cache, so the window resets on its own.
type rateLimiter struct {
	responder Responder
	counters  *gocache.Cache
	limit     int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	logger := log.With().Str("handlerName", "rateLimiter").Logger()
	return &rateLimiter{
		responder: NewResponder(logger),
		counters:  gocache.New(window, 2*window),
		limit:     limit,
	}
}

func (rl *rateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		count, err := rl.counters.IncrementInt64(ip, 1)
		if err != nil {
			// first hit inside the window
			rl.counters.SetDefault(ip, int64(1))
			count = 1
		}
		if count > int64(rl.limit) {
			rl.responder.WriteError(w, errs.NewApiErr(
				http.StatusTooManyRequests,
				"Too many submissions. Please try again later.",
			))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
