package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"billhub/internal/core/id"
	"billhub/internal/domain/delivery"
	"billhub/internal/domain/documents"
	"billhub/internal/domain/documents/quotation"
	"billhub/internal/infrastructure/http/v1/dto"
)

// QuotationHandler handles quotation endpoints.
type QuotationHandler struct {
	*BaseHandler
	service  *quotation.Service
	delivery *delivery.Service
}

// NewQuotationHandler creates a new quotation handler.
func NewQuotationHandler(base *BaseHandler, service *quotation.Service, del *delivery.Service) *QuotationHandler {
	return &QuotationHandler{
		BaseHandler: base,
		service:     service,
		delivery:    del,
	}
}

// List handles GET /quotations
func (h *QuotationHandler) List(c *gin.Context) {
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

// Get handles GET /quotations/:id
func (h *QuotationHandler) Get(c *gin.Context) {
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

// Create handles POST /quotations
func (h *QuotationHandler) Create(c *gin.Context) {
	var req dto.CreateQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	params, ok := h.buildCreateParams(c, req)
	if !ok {
		return
	}

	doc, err := h.service.Create(c.Request.Context(), params)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromDocument(doc))
}

// Update handles PUT /quotations/:id - replaces lines, discount and notes on
// an unsent draft.
func (h *QuotationHandler) Update(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	var req dto.UpdateQuotationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc.Version = req.Version
	doc.Notes = req.Notes
	doc.Lines = doc.Lines[:0]
	for _, lr := range req.Lines {
		in, err := lr.ToLineInput()
		if err != nil {
			h.Error(c, err)
			return
		}
		doc.AddLine(in.ProductID, in.Description, in.Quantity, in.UnitPrice)
	}
	doc.SetDiscount(req.Discount)

	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDocument(doc))
}

// Send handles POST /quotations/:id/send - emails the quotation to the client
// and marks it sent. Delivery happens first; a failed send leaves the
// quotation in to_send.
func (h *QuotationHandler) Send(c *gin.Context) {
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

	sent, err := h.service.MarkSent(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SendResponse{
		Document:    dto.FromDocument(sent),
		PublicURL:   h.delivery.Links().PublicURL(sent),
		WhatsAppURL: h.delivery.Links().WhatsAppURL(sent),
	})
}

// Links handles GET /quotations/:id/links - returns share links without
// sending anything.
func (h *QuotationHandler) Links(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"publicUrl":   h.delivery.Links().PublicURL(doc),
		"whatsappUrl": h.delivery.Links().WhatsAppURL(doc),
	})
}

// Won handles POST /quotations/:id/won - resolves the quotation as won and
// returns the derived invoice.
func (h *QuotationHandler) Won(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	invoice, err := h.service.MarkWon(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDocument(invoice))
}

// Rejected handles POST /quotations/:id/rejected
func (h *QuotationHandler) Rejected(c *gin.Context) {
	h.resolve(c, h.service.MarkRejected)
}

// Lost handles POST /quotations/:id/lost
func (h *QuotationHandler) Lost(c *gin.Context) {
	h.resolve(c, h.service.MarkLost)
}

// Clone handles POST /quotations/:id/clone - copies into a fresh draft.
func (h *QuotationHandler) Clone(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	clone, err := h.service.Clone(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromDocument(clone))
}

// Delete handles DELETE /quotations/:id - always refused with 423.
func (h *QuotationHandler) Delete(c *gin.Context) {
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

// --- internals ---

func (h *QuotationHandler) buildCreateParams(c *gin.Context, req dto.CreateQuotationRequest) (quotation.CreateParams, bool) {
	params := quotation.CreateParams{
		Discount: req.Discount,
		Notes:    req.Notes,
	}

	var ok bool
	if params.ClientID, ok = h.parseIDField(c, req.ClientID, "clientId"); !ok {
		return params, false
	}
	if params.BusinessID, ok = h.parseIDField(c, req.BusinessID, "businessId"); !ok {
		return params, false
	}

	for _, lr := range req.Lines {
		in, err := lr.ToLineInput()
		if err != nil {
			h.Error(c, err)
			return params, false
		}
		params.Lines = append(params.Lines, in)
	}
	return params, true
}

func (h *QuotationHandler) resolve(c *gin.Context, fn func(context.Context, id.ID) (*documents.Document, error)) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	doc, err := fn(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDocument(doc))
}
