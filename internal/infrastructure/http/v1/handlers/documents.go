package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"billhub/internal/core/apperror"
	"billhub/internal/core/id"
	"billhub/internal/domain"
	"billhub/internal/domain/documents"
	"billhub/internal/infrastructure/http/v1/dto"
)

// parseDocumentFilter reads document list parameters from the query string.
// The kind is fixed by the owning service, never by the client.
func (h *BaseHandler) parseDocumentFilter(c *gin.Context) (documents.ListFilter, bool) {
	base, ok := h.parseListFilter(c)
	if !ok {
		return documents.ListFilter{}, false
	}
	if base.OrderBy == "" {
		base.OrderBy = "-issued_at"
	}
	filter := documents.ListFilter{ListFilter: base}

	if status := c.Query("status"); status != "" {
		s, err := documents.ParseStatus(status)
		if err != nil {
			h.Error(c, err)
			return filter, false
		}
		filter.Status = &s
	}

	if clientID := c.Query("clientId"); clientID != "" {
		cid, err := id.Parse(clientID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid clientId format"))
			return filter, false
		}
		filter.ClientID = &cid
	}

	if from := c.Query("dateFrom"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom, RFC3339 expected"))
			return filter, false
		}
		filter.DateFrom = &t
	}

	if to := c.Query("dateTo"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo, RFC3339 expected"))
			return filter, false
		}
		filter.DateTo = &t
	}

	return filter, true
}

// documentListResponse maps a document page to the list payload.
func documentListResponse(result domain.ListResult[*documents.Document]) dto.ListResponse {
	return dto.ListResponse{
		Items:      dto.FromDocuments(result.Items),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
}

// parseIDField parses a UUID coming from a request body field.
func (h *BaseHandler) parseIDField(c *gin.Context, value, field string) (id.ID, bool) {
	parsed, err := id.Parse(value)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("field", field))
		return id.Nil(), false
	}
	return parsed, true
}

// parseDocID parses the :id path parameter.
func (h *BaseHandler) parseDocID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return docID, true
}
