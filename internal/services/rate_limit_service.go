package services

import (
	"log/slog"
	"sync"
	"time"

	"pinlock/internal/models"
)

// RateLimitConfig holds configuration for login rate limiting
type RateLimitConfig struct {
	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

// RateLimitService tracks failed login attempts per identity and enforces a
// temporary lockout. Counters are keyed by the submitted username, so unknown
// usernames are throttled exactly like the real one and cannot be enumerated
// through lockout behavior.
type RateLimitService struct {
	mu       sync.Mutex
	counters map[string]*models.LoginAttemptCounter
	config   RateLimitConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewRateLimitService creates a new RateLimitService
func NewRateLimitService(config RateLimitConfig, logger *slog.Logger) *RateLimitService {
	return &RateLimitService{
		counters: make(map[string]*models.LoginAttemptCounter),
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source for tests.
func (s *RateLimitService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// IsLocked reports whether the identity has an active lockout, and how long
// the caller has to wait. Callers check this before any password hashing so a
// locked-out attempt never costs a bcrypt computation.
func (s *RateLimitService) IsLocked(identity string) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counter, ok := s.counters[identity]
	if !ok {
		return false, 0
	}

	now := s.now()
	if counter.Locked(now) {
		return true, counter.LockedUntil.Sub(now)
	}
	return false, 0
}

// RecordFailure increments the failure counter. Reaching the configured
// threshold trips a lockout and resets the counter for the next window.
func (s *RateLimitService) RecordFailure(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	counter, ok := s.counters[identity]
	if !ok {
		counter = &models.LoginAttemptCounter{}
		s.counters[identity] = counter
	}

	counter.FailureCount++
	counter.LastFailure = now

	if counter.FailureCount >= s.config.MaxFailedAttempts {
		counter.LockedUntil = now.Add(s.config.LockoutDuration)
		counter.FailureCount = 0
		s.logger.Warn("login lockout triggered",
			slog.Duration("lockout_duration", s.config.LockoutDuration))
	}
}

// RecordSuccess clears the failure counter and any lockout for the identity.
func (s *RateLimitService) RecordSuccess(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, identity)
}

// Reset drops every counter. Used by the application reset.
func (s *RateLimitService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[string]*models.LoginAttemptCounter)
}

// PurgeStale removes counters with no active lockout whose last failure is
// older than the lockout duration. Returns the number of entries removed.
func (s *RateLimitService) PurgeStale() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for identity, counter := range s.counters {
		if counter.Locked(now) {
			continue
		}
		if now.Sub(counter.LastFailure) > s.config.LockoutDuration {
			delete(s.counters, identity)
			removed++
		}
	}
	return removed
}
