package services_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pinlock/internal/auth"
	"pinlock/internal/models"
	"pinlock/internal/services"
)

func newTestAuthService(t *testing.T) (*services.AuthService, *services.MockIdentityRepository) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repo := &services.MockIdentityRepository{}

	sessions, err := auth.NewSessionManager(time.Hour)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	limiter := services.NewRateLimitService(services.RateLimitConfig{
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
	}, logger)

	// Min bcrypt cost keeps the suite fast
	return services.NewAuthService(repo, sessions, limiter, 4, logger), repo
}

func provision(t *testing.T, svc *services.AuthService) *models.Credentials {
	t.Helper()
	if err := svc.EnsureProvisioned(context.Background()); err != nil {
		t.Fatalf("provisioning failed: %v", err)
	}
	creds := svc.FirstTimeCheck()
	if creds == nil {
		t.Fatal("expected pending bootstrap credentials")
	}
	return creds
}

func TestAuthService_EnsureProvisioned(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	assert.NoError(t, svc.EnsureProvisioned(ctx))

	identity, err := repo.Get(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, identity.Username)
	assert.NotEmpty(t, identity.PasswordHash)

	// Second call is a no-op against the existing identity
	assert.NoError(t, svc.EnsureProvisioned(ctx))
	again, err := repo.Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, identity.Username, again.Username)
}

func TestAuthService_FirstTimeCheck_OneShot(t *testing.T) {
	svc, _ := newTestAuthService(t)

	assert.NoError(t, svc.EnsureProvisioned(context.Background()))

	creds := svc.FirstTimeCheck()
	assert.NotNil(t, creds)
	assert.NotEmpty(t, creds.Username)
	assert.NotEmpty(t, creds.Password)

	// Exactly once
	assert.Nil(t, svc.FirstTimeCheck())
	assert.Nil(t, svc.FirstTimeCheck())
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuthService(t)
	creds := provision(t, svc)
	ctx := context.Background()

	result, err := svc.Login(ctx, creds.Username, creds.Password)
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, creds.Username, result.Username)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	// The minted token authenticates
	session, err := svc.Authenticate(result.Token)
	assert.NoError(t, err)
	assert.Equal(t, creds.Username, session.Username)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	creds := provision(t, svc)
	ctx := context.Background()

	// Wrong password and unknown username fail identically
	_, err := svc.Login(ctx, creds.Username, "wrong-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "wrong-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAuthService_Login_LockoutBlocksCorrectPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	creds := provision(t, svc)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, creds.Username, "wrong-password")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	}

	// Even the correct password is rejected while locked out
	_, err := svc.Login(ctx, creds.Username, creds.Password)
	var lockedOut *models.LockedOutError
	assert.ErrorAs(t, err, &lockedOut)
	assert.Greater(t, lockedOut.RetryAfter, time.Duration(0))
}

func TestAuthService_Logout(t *testing.T) {
	svc, _ := newTestAuthService(t)
	creds := provision(t, svc)

	result, err := svc.Login(context.Background(), creds.Username, creds.Password)
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(result.Token))

	_, err = svc.Authenticate(result.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// Logging out twice is fine
	assert.NoError(t, svc.Logout(result.Token))
}

func TestAuthService_Reset(t *testing.T) {
	svc, _ := newTestAuthService(t)
	creds := provision(t, svc)
	ctx := context.Background()

	result, err := svc.Login(ctx, creds.Username, creds.Password)
	assert.NoError(t, err)

	assert.NoError(t, svc.Reset(ctx))

	// Old session is gone
	_, err = svc.Authenticate(result.Token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	// Old credentials no longer work
	_, err = svc.Login(ctx, creds.Username, creds.Password)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// Fresh credentials are pending and different from the old pair
	fresh := svc.FirstTimeCheck()
	assert.NotNil(t, fresh)
	assert.NotEqual(t, creds.Password, fresh.Password)

	_, err = svc.Login(ctx, fresh.Username, fresh.Password)
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	creds := provision(t, svc)
	ctx := context.Background()

	newPassword := "Fresh-Passw0rd!"
	assert.NoError(t, svc.ChangePassword(ctx, creds.Username, creds.Password, newPassword))

	// Old password is dead, new one works
	_, err := svc.Login(ctx, creds.Username, creds.Password)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, creds.Username, newPassword)
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword_Rejections(t *testing.T) {
	svc, _ := newTestAuthService(t)
	creds := provision(t, svc)
	ctx := context.Background()

	// Wrong current password
	err := svc.ChangePassword(ctx, creds.Username, "wrong-password", "Fresh-Passw0rd!")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	// Weak replacement password
	err = svc.ChangePassword(ctx, creds.Username, creds.Password, "weak")
	assert.ErrorIs(t, err, models.ErrBadRequest)

	// Neither attempt changed anything
	_, err = svc.Login(ctx, creds.Username, creds.Password)
	assert.NoError(t, err)
}
