// Package entity provides base types shared by all persisted records.
package entity

import (
	"context"
	"time"

	"billhub/internal/core/apperror"
	"billhub/internal/core/id"
)

// BaseEntity contains fields common to every stored record.
type BaseEntity struct {
	// ID is a UUIDv7 primary key (time-ordered)
	ID id.ID `json:"id" db:"id"`

	// DeletionMark supports soft delete; marked records are excluded from
	// default listings but remain queryable
	DeletionMark bool `json:"deletion_mark" db:"deletion_mark"`

	// Version supports optimistic locking; incremented on every update
	Version int `json:"version" db:"version"`
}

// NewBaseEntity creates a BaseEntity with a fresh UUIDv7.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

// GetID returns the entity ID.
func (e *BaseEntity) GetID() id.ID { return e.ID }

// SetID sets the entity ID.
func (e *BaseEntity) SetID(v id.ID) { e.ID = v }

// IsDeleted reports the soft-delete mark.
func (e *BaseEntity) IsDeleted() bool { return e.DeletionMark }

// Touch increments version (for optimistic locking).
func (e *BaseEntity) Touch() { e.Version++ }

// MarkDeleted sets the deletion mark.
func (e *BaseEntity) MarkDeleted() { e.DeletionMark = true }

// Undelete clears the deletion mark.
func (e *BaseEntity) Undelete() { e.DeletionMark = false }

// SetVersion updates the version number (used by repository after sync).
func (e *BaseEntity) SetVersion(v int) { e.Version = v }

// BaseDocument extends BaseEntity with audit fields for documents.
type BaseDocument struct {
	BaseEntity

	// Audit fields
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy string    `json:"updated_by,omitempty" db:"updated_by"`
}

// NewBaseDocument creates a BaseDocument with generated ID and timestamps.
func NewBaseDocument(now time.Time) BaseDocument {
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BaseDocument) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
	b.BaseEntity.Touch()
}

// Catalog is the base for reference-data records (clients, products,
// businesses). Each row is owned by exactly one tenant.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier, unique within the tenant
	Code string `json:"code" db:"code"`

	// Name is the display name
	Name string `json:"name" db:"name"`

	// TenantID tags the owning tenant
	TenantID string `json:"tenant_id" db:"tenant_id"`
}

// NewCatalog creates a Catalog owned by tenantID.
func NewCatalog(tenantID, code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
		TenantID:   tenantID,
	}
}

// Validate checks base catalog invariants.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if c.TenantID == "" {
		return apperror.NewValidation("tenant is required").
			WithDetail("field", "tenantId")
	}
	return nil
}

// OwnerTenantID implements security.TenantOwned.
func (c *Catalog) OwnerTenantID() string { return c.TenantID }

// GetCode returns the catalog code.
func (c *Catalog) GetCode() string { return c.Code }

// SetCode sets the catalog code.
func (c *Catalog) SetCode(code string) { c.Code = code }

// Identifiable is implemented by records with a UUID primary key.
type Identifiable interface {
	GetID() id.ID
	SetID(id.ID)
}

// Coded is implemented by records carrying a human-readable code.
type Coded interface {
	GetCode() string
	SetCode(string)
}

// Validatable is implemented by records that validate themselves before save.
type Validatable interface {
	Validate(ctx context.Context) error
}
