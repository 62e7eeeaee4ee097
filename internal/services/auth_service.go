package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pinlock/internal/auth"
	"pinlock/internal/models"
	pkgauth "pinlock/pkg/auth"
)

// IdentityRepository defines the persistence interface for the operator record
type IdentityRepository interface {
	Get(ctx context.Context) (*models.Identity, error)
	GetByUsername(ctx context.Context, username string) (*models.Identity, error)
	Create(ctx context.Context, identity *models.Identity) error
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	DeleteAll(ctx context.Context) error
}

// SessionStore defines the session lifecycle interface
type SessionStore interface {
	Issue(username string) (*models.Session, error)
	Validate(token string) (*models.Session, error)
	Revoke(token string) error
	RevokeAll() error
}

// AuthService composes the credential store, rate limiter and session manager
// into the login/logout/authenticate/reset surface.
type AuthService struct {
	repo       IdentityRepository
	sessions   SessionStore
	limiter    *RateLimitService
	logger     *slog.Logger
	bcryptCost int

	// pending holds the plaintext credential pair between bootstrap and the
	// one-shot first-time-check read. It never touches disk or logs.
	mu      sync.Mutex
	pending *models.Credentials
}

// NewAuthService creates a new AuthService
func NewAuthService(repo IdentityRepository, sessions SessionStore, limiter *RateLimitService, bcryptCost int, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:       repo,
		sessions:   sessions,
		limiter:    limiter,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// EnsureProvisioned runs the bootstrap generator when no identity exists yet.
// The generated plaintext pair is held for exactly one first-time-check read.
func (s *AuthService) EnsureProvisioned(ctx context.Context) error {
	_, err := s.repo.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return s.bootstrap(ctx)
}

func (s *AuthService) bootstrap(ctx context.Context) error {
	creds, err := auth.GenerateCredentials()
	if err != nil {
		return err
	}

	hash, err := pkgauth.HashPassword(creds.Password, s.bcryptCost)
	if err != nil {
		return err
	}

	identity := &models.Identity{
		Username:     creds.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		return err
	}

	s.mu.Lock()
	s.pending = creds
	s.mu.Unlock()

	s.logger.Info("operator identity provisioned", slog.String("username", creds.Username))
	return nil
}

// Login authenticates the operator and mints a fresh session. The lockout
// check runs before any bcrypt work.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}

	if locked, retryAfter := s.limiter.IsLocked(username); locked {
		s.logger.Warn("login rejected: identity locked out",
			slog.Duration("retry_after", retryAfter))
		return nil, &models.LockedOutError{RetryAfter: retryAfter}
	}

	identity, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Unknown usernames count against the limiter too
			s.limiter.RecordFailure(username)
			s.logger.Info("login failed: invalid credentials")
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to load identity", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !pkgauth.VerifyPassword(password, identity.PasswordHash) {
		s.limiter.RecordFailure(username)
		s.logger.Info("login failed: invalid credentials")
		return nil, models.ErrInvalidCredentials
	}

	s.limiter.RecordSuccess(username)

	session, err := s.sessions.Issue(identity.Username)
	if err != nil {
		s.logger.Error("failed to issue session", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("operator logged in", slog.String("username", identity.Username))

	return &LoginResult{
		Token:     session.Token,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout revokes the session. Revoking an already-invalid token is a no-op
// success.
func (s *AuthService) Logout(token string) error {
	if err := s.sessions.Revoke(token); err != nil {
		s.logger.Error("failed to revoke session", slog.Any("error", err))
		return models.ErrInternalServer
	}
	return nil
}

// Authenticate validates a bearer token and returns its session.
func (s *AuthService) Authenticate(token string) (*models.Session, error) {
	session, err := s.sessions.Validate(token)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	return session, nil
}

// FirstTimeCheck returns the pending bootstrap credentials exactly once; every
// later call returns nil.
func (s *AuthService) FirstTimeCheck() *models.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.pending
	s.pending = nil
	return creds
}

// Reset destroys the identity, all sessions and all lockout state, then
// re-runs the bootstrap generator. Irreversible by design: it is the only
// recovery path from lost credentials.
func (s *AuthService) Reset(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		s.logger.Error("failed to delete identity", slog.Any("error", err))
		return models.ErrInternalServer
	}
	if err := s.sessions.RevokeAll(); err != nil {
		s.logger.Error("failed to revoke sessions", slog.Any("error", err))
		return models.ErrInternalServer
	}
	s.limiter.Reset()

	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()

	if err := s.bootstrap(ctx); err != nil {
		s.logger.Error("failed to re-provision after reset", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("application reset completed")
	return nil
}

// ChangePassword replaces the operator password after verifying the current
// one. Existing sessions stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	identity, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrInvalidCredentials
		}
		return models.ErrInternalServer
	}

	if !pkgauth.VerifyPassword(oldPassword, identity.PasswordHash) {
		return models.ErrInvalidCredentials
	}

	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return models.ErrBadRequest
	}

	hash, err := pkgauth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return models.ErrInternalServer
	}
	if err := s.repo.UpdatePasswordHash(ctx, username, hash); err != nil {
		s.logger.Error("failed to update password hash", slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password changed", slog.String("username", username))
	return nil
}
