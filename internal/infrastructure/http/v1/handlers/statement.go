package handlers

import (
	"github.com/gin-gonic/gin"

	"billhub/internal/domain/delivery"
	"billhub/internal/domain/documents/statement"
	"billhub/internal/infrastructure/http/v1/dto"
)

// StatementHandler handles client statement endpoints.
type StatementHandler struct {
	*BaseHandler
	service  *statement.Service
	delivery *delivery.Service
}

// NewStatementHandler creates a new statement handler.
func NewStatementHandler(base *BaseHandler, service *statement.Service, del *delivery.Service) *StatementHandler {
	return &StatementHandler{
		BaseHandler: base,
		service:     service,
		delivery:    del,
	}
}

// List handles GET /statements
func (h *StatementHandler) List(c *gin.Context) {
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

// Get handles GET /statements/:id
func (h *StatementHandler) Get(c *gin.Context) {
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

// Generate handles POST /statements - builds a point-in-time statement of a
// client's invoices and what remains outstanding.
func (h *StatementHandler) Generate(c *gin.Context) {
	var req dto.GenerateStatementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	clientID, ok := h.parseIDField(c, req.ClientID, "clientId")
	if !ok {
		return
	}
	businessID, ok := h.parseIDField(c, req.BusinessID, "businessId")
	if !ok {
		return
	}

	doc, err := h.service.Generate(c.Request.Context(), clientID, businessID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromDocument(doc))
}

// Send handles POST /statements/:id/send - emails the statement to the client.
func (h *StatementHandler) Send(c *gin.Context) {
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
