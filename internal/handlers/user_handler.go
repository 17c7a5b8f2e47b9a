package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"learnloop/internal/service"
	"learnloop/internal/validation"
)

// UserHandler exposes account creation endpoints
type UserHandler struct {
	authService *service.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Home responds with the service banner
func (h *UserHandler) Home(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Learning Reminder API"})
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser registers a user account. Creation is idempotent by email:
// when the address is already registered the existing id is returned.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return
	}

	user, created, err := h.authService.RegisterOrGet(req.Email, req.Password)
	if err != nil {
		var validationErr validation.ValidationError
		if errors.As(err, &validationErr) {
			respondWithError(w, http.StatusBadRequest, validationErr.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create user", err)
		return
	}

	message := "User created"
	if !created {
		message = "User already exists"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"user_id": user.ID,
	})
}

// CreateTestUser creates the development test account
func (h *UserHandler) CreateTestUser(w http.ResponseWriter, r *http.Request) {
	user, created, err := h.authService.EnsureTestUser()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create test user", err)
		return
	}

	message := "Test user created"
	if !created {
		message = "Test user already exists"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"user_id": user.ID,
	})
}
