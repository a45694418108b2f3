package documents

import (
	"context"
	"time"

	"billhub/internal/core/id"
	"billhub/internal/domain"
)

// Repository defines storage operations for commercial documents. All four
// kinds live in one table; implementations scope every query to the tenant
// from the request context.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, docID id.ID) (*Document, error)
	GetByCode(ctx context.Context, code string) (*Document, error)
	Update(ctx context.Context, doc *Document) error

	// GetByLinkedID finds the document of the given kind derived from origin.
	// Used to make derivation idempotent: a second win or payment returns the
	// already-derived document instead of minting a duplicate.
	GetByLinkedID(ctx context.Context, originID id.ID, kind Kind) (*Document, error)

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]LineItem, error)
	SaveLines(ctx context.Context, docID id.ID, lines []LineItem) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Document, error)
}

// ListFilter for filtering documents.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	Kind     *Kind
	Status   *Status
	ClientID *id.ID
	DateFrom *time.Time
	DateTo   *time.Time
}
