package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"learnloop/internal/models"
	"learnloop/internal/security"
	"learnloop/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService   *service.AuthService
	limiter       *security.RateLimiter
	allowedOrigin string
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, allowedOrigin string) *Middleware {
	return &Middleware{
		authService:   authService,
		limiter:       security.NewRateLimiter(10, time.Minute),
		allowedOrigin: allowedOrigin,
	}
}

// RequireAuth requires a valid session token (Authorization bearer header
// or session cookie) and puts the user on the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := security.SessionIDFromRequest(r)
		if sessionID == "" {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		user, err := m.authService.ValidateSession(sessionID)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired session", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the per-IP request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// CORS allows the configured frontend origin and answers preflight
// requests.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && origin == m.allowedOrigin {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
