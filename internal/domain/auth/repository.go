package auth

import (
	"context"

	"billhub/internal/core/id"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Exists(ctx context.Context, email string) (bool, error)

	// ListByTenant returns the tenant's users. Passing an empty tenantID
	// returns all users (super admin listings).
	ListByTenant(ctx context.Context, tenantID string) ([]*User, error)
}
