package dto

import (
	"time"

	"billhub/internal/core/id"
	"billhub/internal/core/types"
	"billhub/internal/domain/documents"
	"billhub/internal/domain/documents/quotation"
)

// LineResponse contains one document line.
type LineResponse struct {
	LineID      string      `json:"lineId"`
	LineNo      int         `json:"lineNo"`
	ProductID   *string     `json:"productId,omitempty"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	UnitPrice   types.Money `json:"unitPrice"`
	Total       types.Money `json:"total"`
}

// DocumentResponse contains document fields shared by all kinds.
type DocumentResponse struct {
	ID               string                    `json:"id"`
	Kind             string                    `json:"kind"`
	Code             string                    `json:"code"`
	Status           string                    `json:"status"`
	ClientID         string                    `json:"clientId"`
	BusinessID       string                    `json:"businessId"`
	Client           documents.PartySnapshot   `json:"client"`
	Business         documents.PartySnapshot   `json:"business"`
	IssuedAt         time.Time                 `json:"issuedAt"`
	Discount         types.Money               `json:"discount"`
	Subtotal         types.Money               `json:"subtotal"`
	PreTax           types.Money               `json:"preTax"`
	Tax              types.Money               `json:"tax"`
	GrandTotal       types.Money               `json:"grandTotal"`
	PaymentValue     types.Money               `json:"paymentValue"`
	BalanceDue       types.Money               `json:"balanceDue"`
	Payment          *documents.PaymentDetails `json:"payment,omitempty"`
	LinkedDocumentID *string                   `json:"linkedDocumentId,omitempty"`
	Notes            string                    `json:"notes,omitempty"`
	Lines            []LineResponse            `json:"lines"`
	Version          int                       `json:"version"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

// FromDocument creates DocumentResponse from a Document.
func FromDocument(d *documents.Document) DocumentResponse {
	lines := make([]LineResponse, len(d.Lines))
	for i, l := range d.Lines {
		var productID *string
		if l.ProductID != nil {
			s := l.ProductID.String()
			productID = &s
		}
		lines[i] = LineResponse{
			LineID:      l.LineID.String(),
			LineNo:      l.LineNo,
			ProductID:   productID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
		}
	}

	var linkedID *string
	if d.LinkedDocumentID != nil {
		s := d.LinkedDocumentID.String()
		linkedID = &s
	}

	return DocumentResponse{
		ID:               d.ID.String(),
		Kind:             string(d.Kind),
		Code:             d.Code,
		Status:           string(d.Status),
		ClientID:         d.ClientID.String(),
		BusinessID:       d.BusinessID.String(),
		Client:           d.Client,
		Business:         d.Business,
		IssuedAt:         d.IssuedAt,
		Discount:         d.Discount,
		Subtotal:         d.Subtotal,
		PreTax:           d.PreTax,
		Tax:              d.Tax,
		GrandTotal:       d.GrandTotal,
		PaymentValue:     d.PaymentValue,
		BalanceDue:       d.BalanceDue,
		Payment:          d.Payment,
		LinkedDocumentID: linkedID,
		Notes:            d.Notes,
		Lines:            lines,
		Version:          d.Version,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// FromDocuments maps a document page. List rows carry no lines; only single
// document reads load them.
func FromDocuments(docs []*documents.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = FromDocument(d)
	}
	return out
}

// --- Quotation requests ---

// LineRequest describes one requested document line.
type LineRequest struct {
	ProductID   *string     `json:"productId"`
	Description string      `json:"description" binding:"required"`
	Quantity    int         `json:"quantity" binding:"required,min=1"`
	UnitPrice   types.Money `json:"unitPrice"`
}

// ToLineInput converts the request line to service input.
func (r LineRequest) ToLineInput() (quotation.LineInput, error) {
	in := quotation.LineInput{
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
	}
	if r.ProductID != nil && *r.ProductID != "" {
		pid, err := id.Parse(*r.ProductID)
		if err != nil {
			return in, err
		}
		in.ProductID = &pid
	}
	return in, nil
}

// CreateQuotationRequest for drafting a quotation.
type CreateQuotationRequest struct {
	ClientID   string        `json:"clientId" binding:"required"`
	BusinessID string        `json:"businessId" binding:"required"`
	Lines      []LineRequest `json:"lines" binding:"required,min=1"`
	Discount   types.Money   `json:"discount"`
	Notes      string        `json:"notes"`
}

// UpdateQuotationRequest replaces lines, discount and notes on a draft.
type UpdateQuotationRequest struct {
	Lines    []LineRequest `json:"lines" binding:"required,min=1"`
	Discount types.Money   `json:"discount"`
	Notes    string        `json:"notes"`
	Version  int           `json:"version" binding:"required,min=1"`
}

// --- Invoice requests ---

// RegisterPaymentRequest settles an invoice.
type RegisterPaymentRequest struct {
	Value     types.Money `json:"value" binding:"required"`
	Method    string      `json:"method" binding:"required"`
	Reference string      `json:"reference"`
}

// --- Statement requests ---

// GenerateStatementRequest builds a client statement.
type GenerateStatementRequest struct {
	ClientID   string `json:"clientId" binding:"required"`
	BusinessID string `json:"businessId" binding:"required"`
}

// --- Delivery ---

// SendResponse reports a successful delivery plus the share links.
type SendResponse struct {
	Document    DocumentResponse `json:"document"`
	PublicURL   string           `json:"publicUrl"`
	WhatsAppURL string           `json:"whatsappUrl"`
}
