// Package auth holds the admin session shared by every console flow.
package auth

import (
	"context"
	"strings"
	"sync"

	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/metrics"
	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

const (
	msgLoginFailed      = "Login failed"
	msgNotAuthenticated = "Not authenticated"
)

// Backend is the slice of the REST API the store needs.
type Backend interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	CurrentAdmin(ctx context.Context) (*models.AdminUser, error)
}

// Store owns the admin session. Create one per console and pass it to
// whatever needs it; it is safe for concurrent use.
type Store struct {
	backend Backend
	logger  logger.Logger

	mu      sync.Mutex
	session models.Session
}

func NewStore(backend Backend, log logger.Logger) *Store {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Store{
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"component": "auth"}),
	}
}

// Login signs in and loads the admin. A call made while another login or
// logout is running returns false at once without touching the network.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.mu.Lock()
	if s.session.Loading {
		s.mu.Unlock()
		metrics.LoginAttempts.WithLabelValues("dropped").Inc()
		return false
	}
	s.session.Loading = true
	s.session.Error = ""
	s.mu.Unlock()

	user, err := s.login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Loading = false
	if err != nil {
		s.session.Error = err.Error()
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.logger.Warn("Login failed", map[string]interface{}{
			"email": email,
			"error": s.session.Error,
		})
		return false
	}
	s.session.User = user
	s.session.Error = ""
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	s.logger.Info("Admin signed in", map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
	return true
}

// loginError carries the message shown on the login screen.
type loginError string

func (e loginError) Error() string { return string(e) }

func (s *Store) login(ctx context.Context, email, password string) (*models.AdminUser, error) {
	if err := s.backend.Login(ctx, email, password); err != nil {
		if se, ok := errors.As(err); ok && se.Code == errors.ErrCodeBackendRejected && se.Message != "" {
			return nil, loginError(se.Message)
		}
		return nil, loginError(msgLoginFailed)
	}
	user, err := s.backend.CurrentAdmin(ctx)
	if err != nil || user == nil {
		return nil, loginError(msgNotAuthenticated)
	}
	return user, nil
}

// Logout ends the session. Local state is cleared whatever the backend
// says; the backend error, if any, is returned for logging.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session.Loading = true
	s.mu.Unlock()

	err := s.backend.Logout(ctx)

	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Logout call failed, session cleared locally", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return err
}

// FetchUser refreshes the admin from the session cookie. On failure the
// user is cleared without recording an error.
func (s *Store) FetchUser(ctx context.Context) {
	user, err := s.backend.CurrentAdmin(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || user == nil {
		s.session.User = nil
		return
	}
	s.session.User = user
	s.session.Error = ""
}

// Snapshot returns a copy of the session.
func (s *Store) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.session
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

// RequireUser returns the signed-in admin or NOT_AUTHENTICATED.
func (s *Store) RequireUser() (*models.AdminUser, error) {
	snap := s.Snapshot()
	if !snap.Authenticated() {
		return nil, errors.NewNotAuthenticatedError("no active session")
	}
	return snap.User, nil
}

var credentialMessages = validation.Messages{
	"email.required":    "Email is required",
	"email.email":       "Invalid email format",
	"password.required": "Password is required",
}

var credentialValidator = validation.NewStructValidator()

// ValidateCredentials checks the login form before any call is made.
func ValidateCredentials(email, password string) validation.FieldErrors {
	return credentialValidator.Validate(models.LoginRequest{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, credentialMessages)
}
