// Package product provides the Product catalog: billable goods and services.
package product

import (
	"context"

	"billhub/internal/core/apperror"
	"billhub/internal/core/entity"
	"billhub/internal/core/types"
)

// ProductType distinguishes stocked goods from services.
type ProductType string

const (
	TypeGoods   ProductType = "goods"
	TypeService ProductType = "service"
)

// Product represents a billable item.
type Product struct {
	entity.Catalog

	// Type defines whether this is a physical good or a service
	Type ProductType `db:"type" json:"type"`

	// Description is the default line text on documents
	Description string `db:"description" json:"description,omitempty"`

	// UnitPrice is the default selling price
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Unit is the unit of measure label (hour, pc, kg)
	Unit string `db:"unit" json:"unit,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(tenantID, name string, pType ProductType, unitPrice types.Money) *Product {
	return &Product{
		Catalog:   entity.NewCatalog(tenantID, "", name),
		Type:      pType,
		UnitPrice: unitPrice,
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Type != TypeGoods && p.Type != TypeService {
		return apperror.NewValidation("invalid product type").
			WithDetail("field", "type").
			WithDetail("value", string(p.Type))
	}

	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price must not be negative").
			WithDetail("field", "unitPrice")
	}

	return nil
}
