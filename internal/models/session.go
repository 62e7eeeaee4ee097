package models

import "time"

// Session maps an opaque bearer token to the operator it was issued for.
// A token is valid iff now < ExpiresAt and it has not been revoked.
type Session struct {
	Token     string    `json:"-"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
