package handlers

import (
	"github.com/gin-gonic/gin"

	appctx "billhub/internal/core/context"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/infrastructure/http/v1/dto"
)

// ClientHandler is the catalog handler for clients.
type ClientHandler = CatalogHandler[*client.Client, dto.CreateClientRequest, dto.UpdateClientRequest]

// NewClientHandler creates a new client handler.
func NewClientHandler(base *BaseHandler, service *client.Service) *ClientHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*client.Client, dto.CreateClientRequest, dto.UpdateClientRequest]{
		Service:    service.CatalogService,
		EntityName: "client",

		MapCreateDTO: func(c *gin.Context, req dto.CreateClientRequest) (*client.Client, error) {
			cl := client.NewClient(appctx.GetTenantID(c.Request.Context()), req.Name)
			cl.Code = req.Code
			cl.Company = req.Company
			cl.Email = req.Email
			cl.Phone = req.Phone
			cl.Address = req.Address
			cl.VATNo = req.VATNo
			cl.Comment = req.Comment
			return cl, nil
		},

		MapUpdateDTO: func(req dto.UpdateClientRequest, existing *client.Client) (*client.Client, error) {
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
			if req.VATNo != nil {
				existing.VATNo = *req.VATNo
			}
			if req.Comment != nil {
				existing.Comment = *req.Comment
			}
			return existing, nil
		},

		MapToDTO: func(cl *client.Client) any {
			return dto.FromClient(cl)
		},
	})
}
