package business

import (
	"context"

	"billhub/internal/core/id"
	"billhub/internal/domain"
)

// Repository defines the interface for Business persistence.
type Repository interface {
	domain.CatalogRepository[*Business]

	// GetForUpdate retrieves business with row lock (for transactional updates).
	GetForUpdate(ctx context.Context, id id.ID) (*Business, error)
}
