package service

import (
	"errors"
	"fmt"
	"time"

	"learnloop/internal/models"
	"learnloop/internal/repository"
	"learnloop/internal/security"
	"learnloop/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

// TestUserEmail is the account created by the development helper endpoint
const TestUserEmail = "test@example.com"

// AuthService handles account and session business logic
type AuthService struct {
	userRepo        *repository.UserRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		sessionDuration: sessionDuration,
	}
}

// RegisterOrGet creates a user account, or returns the existing account
// when the email is already registered. The boolean reports whether a new
// account was created.
func (s *AuthService) RegisterOrGet(email, password string) (*models.User, bool, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, false, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	return user, true, nil
}

// EnsureTestUser creates the development test account if it is missing
func (s *AuthService) EnsureTestUser() (*models.User, bool, error) {
	return s.RegisterOrGet(TestUserEmail, "testpassword")
}

// Login authenticates a user and creates a session
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	return s.createSession(user)
}

// OAuthLogin signs in a user authenticated by an external identity
// provider, creating the account on first sight of the email.
func (s *AuthService) OAuthLogin(provider, subject, email string) (*models.Session, *models.User, error) {
	if provider == "" || subject == "" {
		return nil, nil, errors.New("missing oauth provider information")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if user == nil {
		// Password login stays possible only via reset, so store an
		// unguessable hash.
		randomHash, err := security.HashPassword(security.GenerateSessionID())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate oauth password hash: %w", err)
		}
		user, err = s.userRepo.CreateUser(email, randomHash)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create oauth user: %w", err)
		}
	}

	return s.createSession(user)
}

func (s *AuthService) createSession(user *models.User) (*models.Session, *models.User, error) {
	sessionID := security.GenerateSessionID()
	expiresAt := time.Now().Add(s.sessionDuration)

	session, err := s.userRepo.CreateSession(sessionID, user.ID, expiresAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, user, nil
}

// ValidateSession checks if a session is valid and returns the associated
// user.
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// Logout invalidates a session
func (s *AuthService) Logout(sessionID string) error {
	if err := s.userRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from the database
func (s *AuthService) CleanupExpiredSessions() error {
	if err := s.userRepo.DeleteExpiredSessions(); err != nil {
		return fmt.Errorf("failed to cleanup sessions: %w", err)
	}
	return nil
}
