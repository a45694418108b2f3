package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "billhub/internal/core/context"
	"billhub/internal/domain/catalogs/product"
	"billhub/internal/infrastructure/http/v1/dto"
)

// ProductHandler is the catalog handler for products.
type ProductHandler = CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(c *gin.Context, req dto.CreateProductRequest) (*product.Product, error) {
			p := product.NewProduct(
				appctx.GetTenantID(c.Request.Context()),
				req.Name,
				product.ProductType(req.Type),
				req.UnitPrice,
			)
			p.Code = req.Code
			p.Description = req.Description
			p.Unit = req.Unit
			return p, nil
		},

		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) (*product.Product, error) {
			existing.Version = req.Version
			if req.Name != nil {
				existing.Name = *req.Name
			}
			if req.Type != nil {
				existing.Type = product.ProductType(*req.Type)
			}
			if req.Description != nil {
				existing.Description = *req.Description
			}
			if req.UnitPrice != nil {
				existing.UnitPrice = *req.UnitPrice
			}
			if req.Unit != nil {
				existing.Unit = *req.Unit
			}
			return existing, nil
		},

		MapToDTO: func(p *product.Product) any {
			return dto.FromProduct(p)
		},
	})
}
