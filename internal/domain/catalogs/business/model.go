// Package business provides the Business catalog: the issuing company
// profiles a tenant sends documents from.
package business

import (
	"context"
	"regexp"

	"billhub/internal/core/apperror"
	"billhub/internal/core/entity"
	"billhub/internal/domain/documents"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Business represents an issuing company profile. A tenant may keep several
// (trading names, branches); each document snapshots exactly one.
type Business struct {
	entity.Catalog

	// Company is the registered company name; used for the second initials
	// block of document codes
	Company string `db:"company" json:"company"`

	Email   string `db:"email" json:"email,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Address string `db:"address" json:"address,omitempty"`

	// RegistrationNo is the company registration number
	RegistrationNo string `db:"registration_no" json:"registrationNo,omitempty"`

	// VATNo is the tax registration, printed on invoices
	VATNo string `db:"vat_no" json:"vatNo,omitempty"`

	// BankDetails is free-form payment instructions printed on invoices
	BankDetails string `db:"bank_details" json:"bankDetails,omitempty"`
}

// NewBusiness creates a new Business with required fields.
func NewBusiness(tenantID, name, company string) *Business {
	return &Business{
		Catalog: entity.NewCatalog(tenantID, "", name),
		Company: company,
	}
}

// Snapshot captures the business's current details for embedding in a document.
func (b *Business) Snapshot() documents.PartySnapshot {
	return documents.PartySnapshot{
		Name:           b.Name,
		Company:        b.Company,
		Email:          b.Email,
		Phone:          b.Phone,
		Address:        b.Address,
		RegistrationNo: b.RegistrationNo,
		VATNo:          b.VATNo,
	}
}

// Validate implements entity.Validatable interface.
func (b *Business) Validate(ctx context.Context) error {
	if err := b.Catalog.Validate(ctx); err != nil {
		return err
	}

	if b.Company == "" {
		return apperror.NewValidation("company name is required").
			WithDetail("field", "company")
	}

	if b.Email != "" && !emailRE.MatchString(b.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email").
			WithDetail("value", b.Email)
	}

	return nil
}
