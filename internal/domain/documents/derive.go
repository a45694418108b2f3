package documents

import (
	"time"

	"billhub/internal/core/apperror"
	"billhub/internal/core/codegen"
	"billhub/internal/core/entity"
	"billhub/internal/core/id"
	"billhub/internal/core/types"
)

// DeriveInvoice produces the invoice for a won quotation. The invoice keeps
// the quotation's code suffix (only the prefix changes), its snapshots, lines
// and totals, and records the origin via LinkedDocumentID.
//
// The function is pure; the caller checks the quotation's status and persists
// both documents in one transaction.
func DeriveInvoice(q *Document, now time.Time) (*Document, error) {
	if q.Kind != KindQuotation {
		return nil, apperror.NewValidation("only quotations derive invoices").
			WithDetail("kind", string(q.Kind))
	}

	code, err := codegen.SwapPrefix(q.Code, KindInvoice.Prefix())
	if err != nil {
		return nil, err
	}

	origin := q.ID
	inv := &Document{
		BaseDocument:     entity.NewBaseDocument(now),
		Kind:             KindInvoice,
		Code:             code,
		TenantID:         q.TenantID,
		ClientID:         q.ClientID,
		BusinessID:       q.BusinessID,
		Client:           q.Client,
		Business:         q.Business,
		Status:           StatusPending,
		IssuedAt:         now.UTC(),
		Discount:         q.Discount,
		LinkedDocumentID: &origin,
		PaymentValue:     types.Zero(),
		BalanceDue:       types.Zero(),
		Notes:            q.Notes,
		Lines:            copyLines(q.Lines),
	}
	inv.Recalculate()
	return inv, nil
}

// DeriveReceipt produces the receipt for a settled payment against an
// invoice. paymentValue may be less than the invoice total; the shortfall is
// recorded as BalanceDue. Instrument metadata travels with the receipt.
func DeriveReceipt(inv *Document, paymentValue types.Money, payment PaymentDetails, now time.Time) (*Document, error) {
	if inv.Kind != KindInvoice {
		return nil, apperror.NewValidation("only invoices derive receipts").
			WithDetail("kind", string(inv.Kind))
	}

	if !paymentValue.IsPositive() {
		return nil, apperror.NewValidation("payment value must be positive").
			WithDetail("field", "paymentValue")
	}

	code, err := codegen.SwapPrefix(inv.Code, KindReceipt.Prefix())
	if err != nil {
		return nil, err
	}

	origin := inv.ID
	pay := payment
	rct := &Document{
		BaseDocument:     entity.NewBaseDocument(now),
		Kind:             KindReceipt,
		Code:             code,
		TenantID:         inv.TenantID,
		ClientID:         inv.ClientID,
		BusinessID:       inv.BusinessID,
		Client:           inv.Client,
		Business:         inv.Business,
		Status:           StatusReceived,
		IssuedAt:         now.UTC(),
		Discount:         inv.Discount,
		Subtotal:         inv.Subtotal,
		PreTax:           inv.PreTax,
		Tax:              inv.Tax,
		GrandTotal:       inv.GrandTotal,
		LinkedDocumentID: &origin,
		PaymentValue:     types.RoundMoney(paymentValue),
		BalanceDue:       types.RoundMoney(inv.GrandTotal.Sub(paymentValue)),
		Payment:          &pay,
		Lines:            copyLines(inv.Lines),
	}
	return rct, nil
}

// copyLines clones the table part with fresh line IDs so the derived
// document's lines are independently addressable.
func copyLines(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].LineID = id.New()
	}
	return out
}
