package delivery

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"billhub/internal/core/apperror"
	"billhub/internal/domain/documents"
	"billhub/pkg/logger"
)

// Service delivers documents to clients. It deliberately does NOT change
// document status: the handler delivers first, then asks the document
// service to mark the transition, so a failed send never strands a document
// in a sent state.
type Service struct {
	mailer   Mailer
	renderer Renderer
	links    *LinkBuilder
}

// NewService creates a delivery service.
func NewService(mailer Mailer, renderer Renderer, links *LinkBuilder) *Service {
	return &Service{
		mailer:   mailer,
		renderer: renderer,
		links:    links,
	}
}

// Links exposes the link builder for handlers.
func (s *Service) Links() *LinkBuilder {
	return s.links
}

// SendEmail renders the document and mails it to the client's address.
func (s *Service) SendEmail(ctx context.Context, doc *documents.Document) error {
	if doc.Client.Email == "" {
		return apperror.NewValidation("client has no email address").
			WithDetail("document", doc.Code)
	}

	pdf, err := s.renderer.RenderPDF(ctx, doc)
	if err != nil {
		return apperror.NewDeliveryFailure("email", fmt.Errorf("render document: %w", err))
	}

	body, err := RenderHTML(doc, s.links.PublicURL(doc))
	if err != nil {
		return apperror.NewDeliveryFailure("email", fmt.Errorf("render body: %w", err))
	}

	msg := Message{
		To:             doc.Client.Email,
		Subject:        fmt.Sprintf("%s %s from %s", kindLabel(doc.Kind), doc.Code, doc.Business.Company),
		Body:           body,
		AttachmentName: doc.Code + ".pdf",
		Attachment:     pdf,
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Error(ctx, "document delivery failed", "code", doc.Code, "error", err)
		return apperror.NewDeliveryFailure("email", err)
	}

	logger.Info(ctx, "document delivered", "code", doc.Code, "to", doc.Client.Email)
	return nil
}

var bodyTemplate = template.Must(template.New("body").Parse(`
<h2>{{.Label}} {{.Code}}</h2>
<p>Dear {{.ClientName}},</p>
<p>Please find {{.Label}} <strong>{{.Code}}</strong> from {{.Company}} attached.</p>
<table>
  <tr><td>Subtotal</td><td>{{.Subtotal}}</td></tr>
  <tr><td>Discount</td><td>{{.Discount}}</td></tr>
  <tr><td>Tax</td><td>{{.Tax}}</td></tr>
  <tr><td><strong>Total</strong></td><td><strong>{{.GrandTotal}}</strong></td></tr>
</table>
<p><a href="{{.Link}}">View online</a></p>
`))

// RenderHTML builds the email body for a document.
func RenderHTML(doc *documents.Document, link string) (string, error) {
	var sb strings.Builder
	err := bodyTemplate.Execute(&sb, map[string]any{
		"Label":      kindLabel(doc.Kind),
		"Code":       doc.Code,
		"ClientName": doc.Client.Name,
		"Company":    doc.Business.Company,
		"Subtotal":   doc.Subtotal.StringFixed(2),
		"Discount":   doc.Discount.StringFixed(2),
		"Tax":        doc.Tax.StringFixed(2),
		"GrandTotal": doc.GrandTotal.StringFixed(2),
		"Link":       link,
	})
	if err != nil {
		return "", fmt.Errorf("execute body template: %w", err)
	}
	return sb.String(), nil
}
