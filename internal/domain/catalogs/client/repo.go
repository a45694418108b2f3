package client

import (
	"context"

	"billhub/internal/core/id"
	"billhub/internal/domain"
)

// Repository defines the interface for Client persistence.
type Repository interface {
	domain.CatalogRepository[*Client]

	// FindByEmail retrieves client by email (unique within tenant).
	FindByEmail(ctx context.Context, email string) (*Client, error)

	// GetForUpdate retrieves client with row lock (for transactional updates).
	GetForUpdate(ctx context.Context, id id.ID) (*Client, error)
}
