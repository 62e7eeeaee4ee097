package repositories_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinlock/internal/database"
	"pinlock/internal/models"
	"pinlock/internal/repositories"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { db.Close() })
	return db
}

func testIdentity(username string) *models.Identity {
	return &models.Identity{
		Username:     username,
		PasswordHash: "$2a$12$fakehashfakehashfakehashfakehash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestIdentityRepository_GetBeforeProvisioning(t *testing.T) {
	repo := repositories.NewIdentityRepository(newTestDB(t))

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIdentityRepository_CreateAndGet(t *testing.T) {
	repo := repositories.NewIdentityRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testIdentity("swiftpanda742")))

	identity, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "swiftpanda742", identity.Username)
	assert.NotEmpty(t, identity.PasswordHash)

	byName, err := repo.GetByUsername(ctx, "swiftpanda742")
	require.NoError(t, err)
	assert.Equal(t, identity.PasswordHash, byName.PasswordHash)

	_, err = repo.GetByUsername(ctx, "somebody-else")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIdentityRepository_SingleOperatorInvariant(t *testing.T) {
	repo := repositories.NewIdentityRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testIdentity("swiftpanda742")))

	err := repo.Create(ctx, testIdentity("bravegorilla123"))
	assert.ErrorIs(t, err, models.ErrAlreadyProvisioned)
}

func TestIdentityRepository_UpdatePasswordHash(t *testing.T) {
	repo := repositories.NewIdentityRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testIdentity("swiftpanda742")))
	require.NoError(t, repo.UpdatePasswordHash(ctx, "swiftpanda742", "$2a$12$newhash"))

	identity, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "$2a$12$newhash", identity.PasswordHash)

	// Unknown username changes nothing
	err = repo.UpdatePasswordHash(ctx, "nobody", "$2a$12$otherhash")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestIdentityRepository_DeleteAll(t *testing.T) {
	repo := repositories.NewIdentityRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testIdentity("swiftpanda742")))
	require.NoError(t, repo.DeleteAll(ctx))

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The slate is clean for re-provisioning
	assert.NoError(t, repo.Create(ctx, testIdentity("bravegorilla123")))
}
