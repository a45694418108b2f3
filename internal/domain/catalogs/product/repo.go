package product

import (
	"context"

	"billhub/internal/core/id"
	"billhub/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetForUpdate retrieves product with row lock (for transactional updates).
	GetForUpdate(ctx context.Context, id id.ID) (*Product, error)
}
