package dto

import (
	"billhub/internal/core/entity"
	"billhub/internal/core/types"
	"billhub/internal/domain/catalogs/business"
	"billhub/internal/domain/catalogs/client"
	"billhub/internal/domain/catalogs/product"
)

// CatalogResponse contains fields shared by all catalog records.
type CatalogResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	DeletionMark bool   `json:"deletionMark"`
	Version      int    `json:"version"`
}

func fromCatalog(c entity.Catalog) CatalogResponse {
	return CatalogResponse{
		ID:           c.ID.String(),
		Code:         c.Code,
		Name:         c.Name,
		DeletionMark: c.DeletionMark,
		Version:      c.Version,
	}
}

// --- Clients ---

// ClientResponse contains client fields.
type ClientResponse struct {
	CatalogResponse
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	VATNo   string `json:"vatNo,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// FromClient creates ClientResponse from a Client.
func FromClient(c *client.Client) ClientResponse {
	return ClientResponse{
		CatalogResponse: fromCatalog(c.Catalog),
		Company:         c.Company,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		VATNo:           c.VATNo,
		Comment:         c.Comment,
	}
}

// CreateClientRequest for creating clients.
type CreateClientRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name" binding:"required"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	VATNo   string `json:"vatNo"`
	Comment string `json:"comment"`
}

// UpdateClientRequest for updating clients. Nil fields keep their value.
type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Company *string `json:"company"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	VATNo   *string `json:"vatNo"`
	Comment *string `json:"comment"`
	Version int     `json:"version" binding:"required,min=1"`
}

// --- Products ---

// ProductResponse contains product fields.
type ProductResponse struct {
	CatalogResponse
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	UnitPrice   types.Money `json:"unitPrice"`
	Unit        string      `json:"unit,omitempty"`
}

// FromProduct creates ProductResponse from a Product.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		CatalogResponse: fromCatalog(p.Catalog),
		Type:            string(p.Type),
		Description:     p.Description,
		UnitPrice:       p.UnitPrice,
		Unit:            p.Unit,
	}
}

// CreateProductRequest for creating products.
type CreateProductRequest struct {
	Code        string      `json:"code"`
	Name        string      `json:"name" binding:"required"`
	Type        string      `json:"type" binding:"required"`
	Description string      `json:"description"`
	UnitPrice   types.Money `json:"unitPrice"`
	Unit        string      `json:"unit"`
}

// UpdateProductRequest for updating products.
type UpdateProductRequest struct {
	Name        *string      `json:"name"`
	Type        *string      `json:"type"`
	Description *string      `json:"description"`
	UnitPrice   *types.Money `json:"unitPrice"`
	Unit        *string      `json:"unit"`
	Version     int          `json:"version" binding:"required,min=1"`
}

// --- Businesses ---

// BusinessResponse contains business profile fields.
type BusinessResponse struct {
	CatalogResponse
	Company        string `json:"company"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	RegistrationNo string `json:"registrationNo,omitempty"`
	VATNo          string `json:"vatNo,omitempty"`
	BankDetails    string `json:"bankDetails,omitempty"`
}

// FromBusiness creates BusinessResponse from a Business.
func FromBusiness(b *business.Business) BusinessResponse {
	return BusinessResponse{
		CatalogResponse: fromCatalog(b.Catalog),
		Company:         b.Company,
		Email:           b.Email,
		Phone:           b.Phone,
		Address:         b.Address,
		RegistrationNo:  b.RegistrationNo,
		VATNo:           b.VATNo,
		BankDetails:     b.BankDetails,
	}
}

// CreateBusinessRequest for creating business profiles.
type CreateBusinessRequest struct {
	Code           string `json:"code"`
	Name           string `json:"name" binding:"required"`
	Company        string `json:"company" binding:"required"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	RegistrationNo string `json:"registrationNo"`
	VATNo          string `json:"vatNo"`
	BankDetails    string `json:"bankDetails"`
}

// UpdateBusinessRequest for updating business profiles.
type UpdateBusinessRequest struct {
	Name           *string `json:"name"`
	Company        *string `json:"company"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	RegistrationNo *string `json:"registrationNo"`
	VATNo          *string `json:"vatNo"`
	BankDetails    *string `json:"bankDetails"`
	Version        int     `json:"version" binding:"required,min=1"`
}
