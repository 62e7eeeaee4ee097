package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Auth-specific errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAlreadyProvisioned = errors.New("installation is already provisioned")
)

// LockedOutError reports an active login lockout together with the time the
// caller has to wait. Unlike other auth failures, the lockout is surfaced
// explicitly so a legitimate user knows when to retry.
type LockedOutError struct {
	RetryAfter time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("account locked, try again in %s", e.RetryAfter.Round(time.Second))
}
