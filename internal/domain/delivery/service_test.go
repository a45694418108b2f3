package delivery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billhub/internal/core/apperror"
	"billhub/internal/core/types"
	"billhub/internal/domain/documents"
)

type fakeMailer struct {
	sent []Message
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testDoc(t *testing.T) *documents.Document {
	t.Helper()

	now := time.Date(2026, 2, 4, 10, 15, 0, 0, time.UTC)
	doc := documents.New(documents.KindQuotation, "B1",
		documents.PartySnapshot{
			Name:  "Alice Thompson",
			Email: "alice@alpha.example",
			Phone: "+27 82 555 0001",
		},
		documents.PartySnapshot{Name: "Main profile", Company: "Acme Studio"},
		now,
	)
	doc.AddLine(nil, "Consulting", 2, types.MustMoney("150.00"))
	return doc
}

func TestSendEmail_DeliversRenderedDocument(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, HTMLRenderer{}, NewLinkBuilder("https://app.example.com"))

	doc := testDoc(t)
	require.NoError(t, svc.SendEmail(context.Background(), doc))

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "alice@alpha.example", msg.To)
	assert.Contains(t, msg.Subject, doc.Code)
	assert.Contains(t, msg.Subject, "Acme Studio")
	assert.Equal(t, doc.Code+".pdf", msg.AttachmentName)
	assert.NotEmpty(t, msg.Attachment)

	// The body carries the public share link.
	assert.Contains(t, msg.Body, "https://app.example.com/p/quotation/"+doc.ID.String())
}

func TestSendEmail_FailureLeavesStatusUntouched(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("relay refused")}
	svc := NewService(mailer, HTMLRenderer{}, NewLinkBuilder("https://app.example.com"))

	doc := testDoc(t)
	err := svc.SendEmail(context.Background(), doc)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDeliveryFailure, appErr.Code)
	assert.Equal(t, documents.StatusToSend, doc.Status)
}

func TestSendEmail_NoClientEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, HTMLRenderer{}, NewLinkBuilder("https://app.example.com"))

	doc := testDoc(t)
	doc.Client.Email = ""

	err := svc.SendEmail(context.Background(), doc)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Empty(t, mailer.sent)
}

func TestLinkBuilder_PublicURL(t *testing.T) {
	doc := testDoc(t)
	links := NewLinkBuilder("https://app.example.com")

	assert.Equal(t,
		"https://app.example.com/p/quotation/"+doc.ID.String(),
		links.PublicURL(doc),
	)
}

func TestLinkBuilder_WhatsAppURL(t *testing.T) {
	doc := testDoc(t)
	links := NewLinkBuilder("https://app.example.com")

	url := links.WhatsAppURL(doc)
	assert.True(t, strings.HasPrefix(url, "https://wa.me/27825550001?text="), url)
	assert.Contains(t, url, "Quotation")

	// No phone: deep link without a recipient.
	doc.Client.Phone = ""
	url = links.WhatsAppURL(doc)
	assert.True(t, strings.HasPrefix(url, "https://wa.me/?text="), url)
}

func TestRenderHTML_EmbedsTotalsAndLink(t *testing.T) {
	doc := testDoc(t)
	doc.SetDiscount(types.MustMoney("50.00"))

	body, err := RenderHTML(doc, "https://app.example.com/p/quotation/"+doc.ID.String())
	require.NoError(t, err)

	assert.Contains(t, body, doc.Code)
	assert.Contains(t, body, "Alice Thompson")
	assert.Contains(t, body, "300.00") // subtotal
	assert.Contains(t, body, "50.00")  // discount
	assert.Contains(t, body, "287.50") // grand total: (300-50) * 1.15
	assert.Contains(t, body, "https://app.example.com/p/quotation/")
}
