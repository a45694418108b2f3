package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "billhub/internal/core/context"
	"billhub/internal/domain/catalogs/business"
	"billhub/internal/infrastructure/http/v1/dto"
)

// BusinessHandler is the catalog handler for business profiles.
type BusinessHandler = CatalogHandler[*business.Business, dto.CreateBusinessRequest, dto.UpdateBusinessRequest]

// NewBusinessHandler creates a new business handler.
func NewBusinessHandler(base *BaseHandler, service *business.Service) *BusinessHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*business.Business, dto.CreateBusinessRequest, dto.UpdateBusinessRequest]{
		Service:    service.CatalogService,
		EntityName: "business",

		MapCreateDTO: func(c *gin.Context, req dto.CreateBusinessRequest) (*business.Business, error) {
			b := business.NewBusiness(appctx.GetTenantID(c.Request.Context()), req.Name, req.Company)
			b.Code = req.Code
			b.Email = req.Email
			b.Phone = req.Phone
			b.Address = req.Address
			b.RegistrationNo = req.RegistrationNo
			b.VATNo = req.VATNo
			b.BankDetails = req.BankDetails
			return b, nil
		},

		MapUpdateDTO: func(req dto.UpdateBusinessRequest, existing *business.Business) (*business.Business, error) {
			existing.Version = req.Version
			if req.Name != nil {
				existing.Name = *req.Name
			}
			if req.Company != nil {
				existing.Company = *req.Company
			}
			if req.Email != nil {
				existing.Email = *req.Email
			}
			if req.Phone != nil {
				existing.Phone = *req.Phone
			}
			if req.Address != nil {
				existing.Address = *req.Address
			}
			if req.RegistrationNo != nil {
				existing.RegistrationNo = *req.RegistrationNo
			}
			if req.VATNo != nil {
				existing.VATNo = *req.VATNo
			}
			if req.BankDetails != nil {
				existing.BankDetails = *req.BankDetails
			}
			return existing, nil
		},

		MapToDTO: func(b *business.Business) any {
			return dto.FromBusiness(b)
		},
	})
}
