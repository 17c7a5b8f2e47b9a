package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"learnloop/internal/security"
	"learnloop/internal/service"
)

// AuthHandler exposes login, logout and OAuth sign-in endpoints
type AuthHandler struct {
	authService     *service.AuthService
	oauthProviders  map[string]OAuthProvider
	redirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, oauthProviders map[string]OAuthProvider, redirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		oauthProviders:  oauthProviders,
		redirectBaseURL: redirectBaseURL,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a user and returns a session token. The token is
// also set as a cookie for browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to login", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, "session_id", session.ID, session.ExpiresAt))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":      session.ID,
		"user_id":    user.ID,
		"expires_at": session.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout invalidates the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := security.SessionIDFromRequest(r); sessionID != "" {
		if err := h.authService.Logout(sessionID); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to logout", err)
			return
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, "session_id"))
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    user.ID,
		"email":      user.Email,
		"created_at": user.CreatedAt.Format(time.RFC3339),
	})
}
