package models

import "time"

// LoginAttemptCounter tracks failed logins for one identity. FailureCount is
// reset to zero when the lockout trips so the next window starts clean, and
// LockedUntil is always in the future relative to the attempt that set it.
type LoginAttemptCounter struct {
	FailureCount int
	LockedUntil  time.Time
	LastFailure  time.Time
}

// Locked reports whether the counter holds an active lockout at the given time.
func (c *LoginAttemptCounter) Locked(now time.Time) bool {
	return !c.LockedUntil.IsZero() && now.Before(c.LockedUntil)
}
