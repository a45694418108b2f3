package handlers

import (
	"github.com/gin-gonic/gin"

	"billhub/internal/domain/documents/receipt"
	"billhub/internal/infrastructure/http/v1/dto"
)

// ReceiptHandler handles receipt endpoints. Receipts are read-only; they are
// only ever created by invoice settlement.
type ReceiptHandler struct {
	*BaseHandler
	service *receipt.Service
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(base *BaseHandler, service *receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /receipts
func (h *ReceiptHandler) List(c *gin.Context) {
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

// Get handles GET /receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
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

// ForInvoice handles GET /invoices/:id/receipt - the receipt derived from the
// given invoice.
func (h *ReceiptHandler) ForInvoice(c *gin.Context) {
	invoiceID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetForInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDocument(doc))
}

// Delete handles DELETE /receipts/:id - always refused with 423.
func (h *ReceiptHandler) Delete(c *gin.Context) {
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
