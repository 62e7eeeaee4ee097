package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pinlock/internal/database"
	"pinlock/internal/models"
)

// IdentityRepository persists the single operator record.
type IdentityRepository struct {
	db *database.DB
}

func NewIdentityRepository(db *database.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Get returns the operator identity, or models.ErrNotFound when the
// installation has not been provisioned yet.
func (r *IdentityRepository) Get(ctx context.Context) (*models.Identity, error) {
	query := `SELECT username, password_hash, created_at FROM identity LIMIT 1`

	identity := &models.Identity{}
	err := r.db.SQL.QueryRowContext(ctx, query).Scan(
		&identity.Username,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return identity, nil
}

// GetByUsername returns the identity iff the given username matches it.
func (r *IdentityRepository) GetByUsername(ctx context.Context, username string) (*models.Identity, error) {
	query := `SELECT username, password_hash, created_at FROM identity WHERE username = ?`

	identity := &models.Identity{}
	err := r.db.SQL.QueryRowContext(ctx, query, username).Scan(
		&identity.Username,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return identity, nil
}

// Create inserts the operator identity. The single-operator invariant is
// enforced here: creating a second identity fails with ErrAlreadyProvisioned.
func (r *IdentityRepository) Create(ctx context.Context, identity *models.Identity) error {
	var count int
	if err := r.db.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM identity`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count identities: %w", err)
	}
	if count > 0 {
		return models.ErrAlreadyProvisioned
	}

	query := `INSERT INTO identity (username, password_hash, created_at) VALUES (?, ?, ?)`
	_, err := r.db.SQL.ExecContext(ctx, query,
		identity.Username,
		identity.PasswordHash,
		identity.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

// UpdatePasswordHash replaces the stored hash for the given username.
func (r *IdentityRepository) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	query := `UPDATE identity SET password_hash = ? WHERE username = ?`

	result, err := r.db.SQL.ExecContext(ctx, query, passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteAll removes every identity row. Used only by the destructive reset.
func (r *IdentityRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.SQL.ExecContext(ctx, `DELETE FROM identity`); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}
