// Package auth_repo provides the PostgreSQL implementation for user storage.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"billhub/internal/core/apperror"
	"billhub/internal/core/id"
	"billhub/internal/domain/auth"
	"billhub/internal/infrastructure/storage/postgres"
)

const userCols = `id, tenant_id, email, password_hash, name, role,
	   is_active, last_login_at, failed_login_attempts, locked_until,
	   created_at, updated_at, version`

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txManager *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		INSERT INTO users (
			id, tenant_id, email, password_hash, name, role,
			is_active, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		user.ID, user.TenantID, user.Email, user.PasswordHash,
		user.Name, user.Role, user.IsActive,
		user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userCols)
	return r.getOne(ctx, query, userID.String(), userID)
}

// GetByEmail retrieves user by email. Emails are globally unique; login
// happens before any tenant is known.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userCols)
	return r.getOne(ctx, query, email, email)
}

func (r *UserRepo) getOne(ctx context.Context, query, key string, arg any) (*auth.User, error) {
	q := r.txManager.GetQuerier(ctx)

	var user auth.User
	err := q.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.TenantID, &user.Email, &user.PasswordHash,
		&user.Name, &user.Role, &user.IsActive,
		&user.LastLoginAt, &user.FailedLoginAttempts, &user.LockedUntil,
		&user.CreatedAt, &user.UpdatedAt, &user.Version,
	)
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("user", key)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// Update updates user data with optimistic locking.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.txManager.GetQuerier(ctx)

	query := `
		UPDATE users SET
			name = $2,
			role = $3,
			password_hash = $4,
			is_active = $5,
			last_login_at = $6,
			failed_login_attempts = $7,
			locked_until = $8,
			updated_at = $9,
			version = version + 1
		WHERE id = $1 AND version = $10
	`

	result, err := q.Exec(ctx, query,
		user.ID, user.Name, user.Role, user.PasswordHash, user.IsActive,
		user.LastLoginAt, user.FailedLoginAttempts, user.LockedUntil,
		user.UpdatedAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("user", user.ID)
	}

	user.Version++
	return nil
}

// Exists checks if a user with the email exists.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	q := r.txManager.GetQuerier(ctx)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := q.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}

	return exists, nil
}

// ListByTenant retrieves the users of one tenant. An empty tenantID lists all
// users; only the platform operator path passes it.
func (r *UserRepo) ListByTenant(ctx context.Context, tenantID string) ([]*auth.User, error) {
	q := r.txManager.GetQuerier(ctx)

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE ($1 = '' OR tenant_id = $1)
		ORDER BY email ASC
	`, userCols)

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		var user auth.User
		err := rows.Scan(
			&user.ID, &user.TenantID, &user.Email, &user.PasswordHash,
			&user.Name, &user.Role, &user.IsActive,
			&user.LastLoginAt, &user.FailedLoginAttempts, &user.LockedUntil,
			&user.CreatedAt, &user.UpdatedAt, &user.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// Ensure interface compliance
var _ auth.UserRepository = (*UserRepo)(nil)
