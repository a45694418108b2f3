// Package documents provides the commercial document model shared by
// quotations, invoices, receipts and statements. All four kinds share one
// shape and one storage table; the Kind tag selects lifecycle and code prefix.
package documents

import (
	"context"
	"time"

	"billhub/internal/core/apperror"
	"billhub/internal/core/codegen"
	"billhub/internal/core/entity"
	"billhub/internal/core/id"
	"billhub/internal/core/types"
)

// Kind discriminates the document variants.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
	KindReceipt   Kind = "receipt"
	KindStatement Kind = "statement"
)

// Prefix returns the code prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindQuotation:
		return "Q"
	case KindInvoice:
		return "INV"
	case KindReceipt:
		return "RCT"
	case KindStatement:
		return "STM"
	}
	return ""
}

// Valid reports whether the kind is one of the known variants.
func (k Kind) Valid() bool {
	return k.Prefix() != ""
}

// ParseKind validates a kind string.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", apperror.NewValidation("unknown document kind").WithDetail("kind", s)
	}
	return k, nil
}

// PartySnapshot captures party details at issue time. The snapshot is
// embedded in the document (JSONB), so later catalog edits never rewrite
// already-issued paperwork.
type PartySnapshot struct {
	Name           string `json:"name"`
	Company        string `json:"company,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	RegistrationNo string `json:"registration_no,omitempty"`
	VATNo          string `json:"vat_no,omitempty"`
}

// LineItem represents one billed line.
type LineItem struct {
	// Line identification
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// ProductID references the product catalog; nil for free-form lines
	ProductID *id.ID `db:"product_id" json:"productId,omitempty"`

	Description string      `db:"description" json:"description"`
	Quantity    int         `db:"quantity" json:"quantity"`
	UnitPrice   types.Money `db:"unit_price" json:"unitPrice"`
}

// Total returns quantity times unit price, rounded to money scale.
func (l LineItem) Total() types.Money {
	return types.RoundMoney(l.UnitPrice.Mul(types.NewMoneyFromInt(int64(l.Quantity))))
}

// PaymentMethod identifies how an invoice was settled.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCheque       PaymentMethod = "cheque"
	PaymentApp          PaymentMethod = "payment_app"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// ParsePaymentMethod validates a payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCheque, PaymentApp, PaymentBankTransfer:
		return PaymentMethod(s), nil
	}
	return "", apperror.NewValidation("unknown payment method").WithDetail("method", s)
}

// RequiresBanking reports whether settlement via this instrument must be
// confirmed against a bank statement before the invoice counts as paid.
func (m PaymentMethod) RequiresBanking() bool {
	return m == PaymentCheque || m == PaymentBankTransfer
}

// PaymentDetails captures the settlement instrument metadata (JSONB).
type PaymentDetails struct {
	Method PaymentMethod `json:"method"`

	// Reference is instrument-specific: cheque number, transfer reference,
	// payment-app transaction id. Empty for cash.
	Reference string `json:"reference,omitempty"`

	// ReceivedAt is when the payment was registered
	ReceivedAt time.Time `json:"received_at"`
}

// Document is a commercial document: quotation, invoice, receipt or
// statement, discriminated by Kind.
type Document struct {
	entity.BaseDocument

	// Kind selects lifecycle, code prefix and derivation rules
	Kind Kind `db:"kind" json:"kind"`

	// Code is the human-readable identifier, e.g. Q-ATAS-0204261015
	Code string `db:"code" json:"code"`

	// TenantID tags the owning tenant
	TenantID string `db:"tenant_id" json:"tenantId"`

	// ClientID references the client catalog
	ClientID id.ID `db:"client_id" json:"clientId"`

	// BusinessID references the issuing business profile
	BusinessID id.ID `db:"business_id" json:"businessId"`

	// Client and Business are point-in-time snapshots (JSONB columns)
	Client   PartySnapshot `db:"client_snapshot" json:"client"`
	Business PartySnapshot `db:"business_snapshot" json:"business"`

	// Status is the lifecycle state, constrained per Kind
	Status Status `db:"status" json:"status"`

	// IssuedAt is the business date stamped into the code
	IssuedAt time.Time `db:"issued_at" json:"issuedAt"`

	// Discount is subtracted from the subtotal before tax
	Discount types.Money `db:"discount" json:"discount"`

	// Totals (calculated from lines and discount)
	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
	PreTax     types.Money `db:"pre_tax" json:"preTax"`
	Tax        types.Money `db:"tax" json:"tax"`
	GrandTotal types.Money `db:"grand_total" json:"grandTotal"`

	// LinkedDocumentID points at the origin document for derived kinds:
	// invoice -> quotation, receipt -> invoice
	LinkedDocumentID *id.ID `db:"linked_document_id" json:"linkedDocumentId,omitempty"`

	// PaymentValue and BalanceDue are set on receipts; BalanceDue doubles as
	// the outstanding amount on statements
	PaymentValue types.Money `db:"payment_value" json:"paymentValue"`
	BalanceDue   types.Money `db:"balance_due" json:"balanceDue"`

	// Payment holds instrument metadata for settled invoices and receipts (JSONB)
	Payment *PaymentDetails `db:"payment_details" json:"payment,omitempty"`

	// Notes is an optional user comment
	Notes string `db:"notes" json:"notes,omitempty"`

	// Table part
	Lines []LineItem `db:"-" json:"lines"`
}

// New creates a document of the given kind with its code stamped from the
// party names and the supplied clock reading.
func New(kind Kind, tenantID string, client, business PartySnapshot, now time.Time) *Document {
	return &Document{
		BaseDocument: entity.NewBaseDocument(now),
		Kind:         kind,
		Code:         codegen.Code(kind.Prefix(), client.Name, business.Company, now),
		TenantID:     tenantID,
		Client:       client,
		Business:     business,
		Status:       InitialStatus(kind),
		IssuedAt:     now.UTC(),
		Discount:     types.Zero(),
		Subtotal:     types.Zero(),
		PreTax:       types.Zero(),
		Tax:          types.Zero(),
		GrandTotal:   types.Zero(),
		PaymentValue: types.Zero(),
		BalanceDue:   types.Zero(),
		Lines:        make([]LineItem, 0),
	}
}

// OwnerTenantID implements security.TenantOwned.
func (d *Document) OwnerTenantID() string { return d.TenantID }

// AddLine appends a line and recalculates totals.
func (d *Document) AddLine(productID *id.ID, description string, quantity int, unitPrice types.Money) {
	d.Lines = append(d.Lines, LineItem{
		LineID:      id.New(),
		LineNo:      len(d.Lines) + 1,
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	d.Recalculate()
}

// Recalculate updates document totals from lines and discount.
func (d *Document) Recalculate() {
	a := CalculateAmounts(d.Lines, d.Discount)
	d.Subtotal = a.Subtotal
	d.PreTax = a.PreTax
	d.Tax = a.Tax
	d.GrandTotal = a.GrandTotal
}

// SetDiscount replaces the discount and recalculates totals.
func (d *Document) SetDiscount(discount types.Money) {
	d.Discount = discount
	d.Recalculate()
}

// IsDerived reports whether this document was produced from another one.
func (d *Document) IsDerived() bool {
	return d.LinkedDocumentID != nil
}

// Validate implements entity.Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if !d.Kind.Valid() {
		return apperror.NewValidation("document kind is required").
			WithDetail("field", "kind")
	}

	if d.TenantID == "" {
		return apperror.NewValidation("tenant is required").
			WithDetail("field", "tenantId")
	}

	if d.Client.Name == "" {
		return apperror.NewValidation("client name is required").
			WithDetail("field", "client.name")
	}

	if d.IssuedAt.IsZero() {
		return apperror.NewValidation("issue date is required").
			WithDetail("field", "issuedAt")
	}

	if !ValidStatus(d.Kind, d.Status) {
		return apperror.NewValidation("status is not valid for this document kind").
			WithDetail("kind", string(d.Kind)).
			WithDetail("status", string(d.Status))
	}

	if d.Kind != KindStatement && len(d.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range d.Lines {
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	if d.Discount.IsNegative() {
		return apperror.NewValidation("discount must not be negative").
			WithDetail("field", "discount")
	}

	return nil
}
