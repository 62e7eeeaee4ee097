package auth

import (
	"context"
	"net/http"

	"pinlock/internal/models"
	pkghttp "pinlock/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// SessionContextKey is the key for storing the validated session in context
	SessionContextKey contextKey = "session"
)

// SessionValidator is implemented by the session manager.
type SessionValidator interface {
	Validate(token string) (*models.Session, error)
}

// RequireSession validates the bearer token and injects the session into the
// request context. A 401 here tells the frontend to drop its token and return
// to the login screen.
func RequireSession(sessions SessionValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := pkghttp.ExtractBearerToken(r)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Authentication required")
				return
			}

			session, err := sessions.Validate(token)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext extracts the validated session from the request
// context, or nil when the request did not pass RequireSession.
func GetSessionFromContext(r *http.Request) *models.Session {
	session, ok := r.Context().Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
