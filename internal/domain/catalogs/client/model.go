// Package client provides the Client catalog: the parties documents are
// issued to.
package client

import (
	"context"
	"regexp"

	"billhub/internal/core/apperror"
	"billhub/internal/core/entity"
	"billhub/internal/domain/documents"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Client represents a customer a document can be issued to.
type Client struct {
	entity.Catalog

	// Company is the client's company name, shown on issued documents.
	// May be empty for private individuals. Document codes take their
	// second initials block from the business profile's company, not this.
	Company string `db:"company" json:"company,omitempty"`

	Email   string `db:"email" json:"email,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Address string `db:"address" json:"address,omitempty"`

	// VATNo is the client's tax registration, printed on invoices
	VATNo string `db:"vat_no" json:"vatNo,omitempty"`

	// Comment is a free-form note
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewClient creates a new Client with required fields.
func NewClient(tenantID, name string) *Client {
	return &Client{
		Catalog: entity.NewCatalog(tenantID, "", name),
	}
}

// Snapshot captures the client's current details for embedding in a document.
func (c *Client) Snapshot() documents.PartySnapshot {
	return documents.PartySnapshot{
		Name:    c.Name,
		Company: c.Company,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		VATNo:   c.VATNo,
	}
}

// Validate implements entity.Validatable interface.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Email != "" && !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email").
			WithDetail("value", c.Email)
	}

	return nil
}
