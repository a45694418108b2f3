package delivery

import (
	"context"

	"billhub/internal/domain/documents"
)

// Renderer produces the printable form of a document. PDF generation runs in
// a separate worker; this interface is the seam.
type Renderer interface {
	// RenderPDF returns the rendered document bytes.
	RenderPDF(ctx context.Context, doc *documents.Document) ([]byte, error)
}

// HTMLRenderer is a minimal fallback renderer that attaches the HTML body
// instead of a PDF when no rendering worker is configured.
type HTMLRenderer struct{}

func (HTMLRenderer) RenderPDF(ctx context.Context, doc *documents.Document) ([]byte, error) {
	body, err := RenderHTML(doc, "")
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}
