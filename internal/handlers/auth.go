package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pinlock/internal/auth"
	"pinlock/internal/models"
	"pinlock/internal/services"
	pkghttp "pinlock/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	Logout(token string) error
	FirstTimeCheck() *models.Credentials
	Reset(ctx context.Context) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
}

func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Request/response DTOs

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expires_at"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type FirstTimeCheckResponse struct {
	IsFirstTime bool   `json:"is_first_time"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Login authenticates the operator and returns a fresh bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var lockedOut *models.LockedOutError
		switch {
		case errors.As(err, &lockedOut):
			seconds := int(lockedOut.RetryAfter.Round(time.Second).Seconds())
			pkghttp.WriteLockedOut(w, lockedOut.Error(), seconds)
		case errors.Is(err, models.ErrInvalidCredentials):
			// Same message whether the username exists or not
			pkghttp.WriteUnauthorized(w, "Invalid username or password")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Success:   true,
		Token:     result.Token,
		Username:  result.Username,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout revokes the presented session token. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := pkghttp.ExtractBearerToken(r)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(token); err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// FirstTimeCheck returns the bootstrap credentials exactly once, right after
// provisioning or a reset.
func (h *AuthHandler) FirstTimeCheck(w http.ResponseWriter, r *http.Request) {
	creds := h.service.FirstTimeCheck()
	if creds == nil {
		pkghttp.WriteJSON(w, http.StatusOK, FirstTimeCheckResponse{IsFirstTime: false})
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, FirstTimeCheckResponse{
		IsFirstTime: true,
		Username:    creds.Username,
		Password:    creds.Password,
		Message:     "Save these credentials now! They won't be shown again.",
	})
}

// ResetApplication destroys the identity and all sessions, then re-provisions.
// Unauthenticated by design: physical access to the machine is the threat
// model, and this is the only recovery path from lost credentials.
func (h *AuthHandler) ResetApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ChangePassword replaces the operator password after verifying the current one.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	session := auth.GetSessionFromContext(r)
	if session == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := pkghttp.DecodeJSON(r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	err := h.service.ChangePassword(r.Context(), session.Username, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Current password is incorrect")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "New password does not meet requirements")
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Password changed successfully",
	})
}
