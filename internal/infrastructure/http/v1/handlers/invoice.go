package handlers

import (
	"github.com/gin-gonic/gin"

	"billhub/internal/domain/delivery"
	"billhub/internal/domain/documents"
	"billhub/internal/domain/documents/invoice"
	"billhub/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles invoice endpoints. Invoices are never created
// directly; they are derived from won quotations.
type InvoiceHandler struct {
	*BaseHandler
	service  *invoice.Service
	delivery *delivery.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, del *delivery.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
		delivery:    del,
	}
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, ok := h.parseDocumentFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, documentListResponse(result))
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDocument(doc))
}

// Send handles POST /invoices/:id/send - emails the invoice to the client.
// Invoices carry no sent state; delivery is purely informational.
func (h *InvoiceHandler) Send(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.delivery.SendEmail(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SendResponse{
		Document:    dto.FromDocument(doc),
		PublicURL:   h.delivery.Links().PublicURL(doc),
		WhatsAppURL: h.delivery.Links().WhatsAppURL(doc),
	})
}

// RegisterPayment handles POST /invoices/:id/payments. Cash and payment-app
// settle immediately and return the derived receipt; cheques and transfers
// park the invoice in unbanked and return the invoice itself.
func (h *InvoiceHandler) RegisterPayment(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	var req dto.RegisterPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	method, err := documents.ParsePaymentMethod(req.Method)
	if err != nil {
		h.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	receipt, err := h.service.RegisterPayment(ctx, docID, invoice.PaymentParams{
		Value:     req.Value,
		Method:    method,
		Reference: req.Reference,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	if receipt != nil {
		h.OK(c, dto.FromDocument(receipt))
		return
	}

	// Unbanked path: no receipt yet, return the parked invoice.
	inv, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDocument(inv))
}

// ConfirmBanking handles POST /invoices/:id/confirm-banking - finalizes an
// unbanked invoice and returns the derived receipt.
func (h *InvoiceHandler) ConfirmBanking(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	receipt, err := h.service.ConfirmBanking(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDocument(receipt))
}

// Delete handles DELETE /invoices/:id - always refused with 423.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
