package models

import "time"

// Identity is the single operator record. At most one row exists per
// installation; it is created by the bootstrap generator (or a reset) and
// destroyed only by a full application reset.
type Identity struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Credentials is a plaintext username/password pair produced by the bootstrap
// generator. It is surfaced to the operator exactly once and never persisted.
type Credentials struct {
	Username string
	Password string
}
