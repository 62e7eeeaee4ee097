package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"pinlock/internal/models"
	pkgauth "pinlock/pkg/auth"
)

// SessionManager issues, validates and revokes opaque bearer tokens. Sessions
// live in an in-memory cache whose life window matches the session TTL, so the
// cache itself evicts whatever lazy validation never touched.
type SessionManager struct {
	cache *bigcache.BigCache
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionManager creates a session manager with the given fixed TTL.
func NewSessionManager(ttl time.Duration) (*SessionManager, error) {
	config := bigcache.DefaultConfig(ttl)
	config.CleanWindow = time.Minute

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &SessionManager{
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

// SetClock overrides the time source. Tests use this to cross the expiry
// boundary without sleeping.
func (m *SessionManager) SetClock(now func() time.Time) {
	m.now = now
}

// Issue mints a fresh session for the given username. Every login produces a
// new token; an old token is never revived.
func (m *SessionManager) Issue(username string) (*models.Session, error) {
	token, err := pkgauth.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	issued := m.now()
	session := &models.Session{
		Token:     token,
		Username:  username,
		IssuedAt:  issued,
		ExpiresAt: issued.Add(m.ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.cache.Set(token, payload); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Validate looks up the token and returns its session. Absent, revoked and
// expired tokens all fail with models.ErrUnauthorized; expired entries are
// purged on the way out.
func (m *SessionManager) Validate(token string) (*models.Session, error) {
	if token == "" {
		return nil, models.ErrUnauthorized
	}

	payload, err := m.cache.Get(token)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	session := &models.Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		// A corrupt entry is as good as no entry
		_ = m.cache.Delete(token)
		return nil, models.ErrUnauthorized
	}
	session.Token = token

	if session.Expired(m.now()) {
		_ = m.cache.Delete(token)
		return nil, models.ErrUnauthorized
	}
	return session, nil
}

// Revoke deletes the session. Revoking an unknown or already-expired token is
// a no-op success so logout stays idempotent.
func (m *SessionManager) Revoke(token string) error {
	err := m.cache.Delete(token)
	if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// RevokeAll destroys every session. Used by the application reset.
func (m *SessionManager) RevokeAll() error {
	if err := m.cache.Reset(); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}
