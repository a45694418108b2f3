package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billhub/internal/core/types"
)

func wonQuotation(t *testing.T) *Document {
	t.Helper()

	client, business := testParties()
	issued := time.Date(2026, time.February, 4, 10, 15, 0, 0, time.UTC)

	q := New(KindQuotation, "T1", client, business, issued)
	q.AddLine(nil, "Consulting", 1, types.MustMoney("20000"))
	require.NoError(t, q.Transition(StatusSent))
	require.NoError(t, q.Transition(StatusWon))
	return q
}

func TestDeriveInvoice(t *testing.T) {
	q := wonQuotation(t)
	now := time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC)

	inv, err := DeriveInvoice(q, now)
	require.NoError(t, err)

	// Prefix swaps, suffix survives
	assert.Equal(t, "INV-ATAS-0204261015", inv.Code)
	assert.Equal(t, KindInvoice, inv.Kind)
	assert.Equal(t, StatusPending, inv.Status)
	assert.Equal(t, q.TenantID, inv.TenantID)

	require.NotNil(t, inv.LinkedDocumentID)
	assert.Equal(t, q.ID, *inv.LinkedDocumentID)

	// Snapshots and amounts carried over
	assert.Equal(t, q.Client, inv.Client)
	assert.True(t, types.MoneyEqual(q.GrandTotal, inv.GrandTotal))
	require.Len(t, inv.Lines, 1)
	assert.NotEqual(t, q.Lines[0].LineID, inv.Lines[0].LineID)

	// New document, not a mutation of the quotation
	assert.NotEqual(t, q.ID, inv.ID)
	assert.Equal(t, StatusWon, q.Status)
}

func TestDeriveInvoice_WrongKind(t *testing.T) {
	q := wonQuotation(t)
	inv, err := DeriveInvoice(q, time.Now().UTC())
	require.NoError(t, err)

	_, err = DeriveInvoice(inv, time.Now().UTC())
	assert.Error(t, err)
}

func TestDeriveReceipt_FullPayment(t *testing.T) {
	q := wonQuotation(t)
	inv, err := DeriveInvoice(q, time.Now().UTC())
	require.NoError(t, err)

	pay := PaymentDetails{Method: PaymentCash, ReceivedAt: time.Now().UTC()}
	rct, err := DeriveReceipt(inv, inv.GrandTotal, pay, time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, "RCT-ATAS-0204261015", rct.Code)
	assert.Equal(t, StatusReceived, rct.Status)
	assert.True(t, types.MoneyEqual(inv.GrandTotal, rct.PaymentValue))
	assert.True(t, rct.BalanceDue.IsZero(), "balance due = %s", rct.BalanceDue)

	require.NotNil(t, rct.Payment)
	assert.Equal(t, PaymentCash, rct.Payment.Method)

	require.NotNil(t, rct.LinkedDocumentID)
	assert.Equal(t, inv.ID, *rct.LinkedDocumentID)
}

func TestDeriveReceipt_PartialPayment(t *testing.T) {
	q := wonQuotation(t)
	inv, err := DeriveInvoice(q, time.Now().UTC())
	require.NoError(t, err)
	// 20000 + 15% tax = 23000
	require.True(t, types.MoneyEqual(types.MustMoney("23000"), inv.GrandTotal))

	pay := PaymentDetails{Method: PaymentBankTransfer, Reference: "TRX-4711", ReceivedAt: time.Now().UTC()}
	rct, err := DeriveReceipt(inv, types.MustMoney("12000"), pay, time.Now().UTC())
	require.NoError(t, err)

	assert.True(t, types.MoneyEqual(types.MustMoney("12000"), rct.PaymentValue))
	assert.True(t, types.MoneyEqual(types.MustMoney("11000"), rct.BalanceDue))
	assert.Equal(t, "TRX-4711", rct.Payment.Reference)
}

func TestDeriveReceipt_RejectsNonPositivePayment(t *testing.T) {
	q := wonQuotation(t)
	inv, err := DeriveInvoice(q, time.Now().UTC())
	require.NoError(t, err)

	pay := PaymentDetails{Method: PaymentCash, ReceivedAt: time.Now().UTC()}
	_, err = DeriveReceipt(inv, types.Zero(), pay, time.Now().UTC())
	assert.Error(t, err)

	_, err = DeriveReceipt(inv, types.MustMoney("-10"), pay, time.Now().UTC())
	assert.Error(t, err)
}

func TestPaymentMethod_RequiresBanking(t *testing.T) {
	assert.False(t, PaymentCash.RequiresBanking())
	assert.False(t, PaymentApp.RequiresBanking())
	assert.True(t, PaymentCheque.RequiresBanking())
	assert.True(t, PaymentBankTransfer.RequiresBanking())
}
