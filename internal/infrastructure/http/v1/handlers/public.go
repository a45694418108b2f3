package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"billhub/internal/core/apperror"
	"billhub/internal/core/id"
	"billhub/internal/core/security"
	"billhub/internal/domain/delivery"
	"billhub/internal/domain/documents"
	"billhub/internal/domain/documents/invoice"
	"billhub/internal/domain/documents/quotation"
	"billhub/internal/domain/documents/receipt"
	"billhub/internal/domain/documents/statement"
	"billhub/internal/infrastructure/http/v1/dto"
)

// PublicHandler serves the unauthenticated share surface under /p. The UUID
// in the path is the capability: whoever holds the link may view the document
// and, for quotations, accept or decline it. The widened scope below is used
// for nothing except lookups by that UUID.
type PublicHandler struct {
	*BaseHandler
	quotations *quotation.Service
	invoices   *invoice.Service
	receipts   *receipt.Service
	statements *statement.Service
}

// NewPublicHandler creates a new public handler.
func NewPublicHandler(
	base *BaseHandler,
	quotations *quotation.Service,
	invoices *invoice.Service,
	receipts *receipt.Service,
	statements *statement.Service,
) *PublicHandler {
	return &PublicHandler{
		BaseHandler: base,
		quotations:  quotations,
		invoices:    invoices,
		receipts:    receipts,
		statements:  statements,
	}
}

// View handles GET /p/:kind/:id - public document view.
// With ?format=html the rendered document is returned instead of JSON.
func (h *PublicHandler) View(c *gin.Context) {
	kind, docID, ok := h.parseKindAndID(c)
	if !ok {
		return
	}

	doc, err := h.load(publicScope(c.Request.Context()), kind, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if c.Query("format") == "html" {
		body, err := delivery.RenderHTML(doc, "")
		if err != nil {
			h.Error(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
		return
	}
	c.JSON(http.StatusOK, dto.FromDocument(doc))
}

// Accept handles POST /p/quotation/:id/accept - the client accepts the offer.
// Resolves the quotation as won and derives the invoice.
func (h *PublicHandler) Accept(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	inv, err := h.quotations.MarkWon(publicScope(c.Request.Context()), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromDocument(inv))
}

// Decline handles POST /p/quotation/:id/decline - the client rejects the offer.
func (h *PublicHandler) Decline(c *gin.Context) {
	docID, ok := h.parseDocID(c)
	if !ok {
		return
	}

	doc, err := h.quotations.MarkRejected(publicScope(c.Request.Context()), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromDocument(doc))
}

// RegisterRoutes registers the public share routes.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:kind/:id", h.View)
	rg.POST("/quotation/:id/accept", h.Accept)
	rg.POST("/quotation/:id/decline", h.Decline)
}

// --- internals ---

func (h *PublicHandler) parseKindAndID(c *gin.Context) (documents.Kind, id.ID, bool) {
	kind, err := documents.ParseKind(c.Param("kind"))
	if err != nil {
		h.Error(c, err)
		return "", id.Nil(), false
	}
	docID, ok := h.parseDocID(c)
	if !ok {
		return "", id.Nil(), false
	}
	return kind, docID, true
}

func (h *PublicHandler) load(ctx context.Context, kind documents.Kind, docID id.ID) (*documents.Document, error) {
	switch kind {
	case documents.KindQuotation:
		return h.quotations.GetByID(ctx, docID)
	case documents.KindInvoice:
		return h.invoices.GetByID(ctx, docID)
	case documents.KindReceipt:
		return h.receipts.GetByID(ctx, docID)
	case documents.KindStatement:
		return h.statements.GetByID(ctx, docID)
	}
	return nil, apperror.NewValidation("unknown document kind")
}

// publicScope widens tenant scoping for a single lookup by UUID. The route
// layer never exposes list endpoints under this scope.
func publicScope(ctx context.Context) context.Context {
	return security.WithScope(ctx, &security.AccessScope{
		UserID: "public-link",
		Role:   security.RolePlatformSuperAdmin,
	})
}
