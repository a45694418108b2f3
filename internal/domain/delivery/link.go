package delivery

import (
	"fmt"
	"net/url"

	"billhub/internal/domain/documents"
)

// LinkBuilder builds public share links for documents. The public view is
// unauthenticated: the UUID in the path is the capability.
type LinkBuilder struct {
	baseURL string
}

// NewLinkBuilder creates a LinkBuilder. baseURL is the externally visible
// origin, e.g. https://app.example.com.
func NewLinkBuilder(baseURL string) *LinkBuilder {
	return &LinkBuilder{baseURL: baseURL}
}

// PublicURL returns the shareable view link for a document.
func (b *LinkBuilder) PublicURL(doc *documents.Document) string {
	return fmt.Sprintf("%s/p/%s/%s", b.baseURL, doc.Kind, doc.ID)
}

// WhatsAppURL returns a wa.me deep link that opens a chat to the client's
// phone prefilled with the document's share link.
func (b *LinkBuilder) WhatsAppURL(doc *documents.Document) string {
	text := fmt.Sprintf("%s %s: %s", kindLabel(doc.Kind), doc.Code, b.PublicURL(doc))

	phone := digitsOnly(doc.Client.Phone)
	if phone == "" {
		return "https://wa.me/?text=" + url.QueryEscape(text)
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text))
}

func kindLabel(kind documents.Kind) string {
	switch kind {
	case documents.KindQuotation:
		return "Quotation"
	case documents.KindInvoice:
		return "Invoice"
	case documents.KindReceipt:
		return "Receipt"
	case documents.KindStatement:
		return "Statement"
	}
	return "Document"
}

func digitsOnly(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}
