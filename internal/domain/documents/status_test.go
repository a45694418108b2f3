package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billhub/internal/core/apperror"
	"billhub/internal/core/types"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusToSend, InitialStatus(KindQuotation))
	assert.Equal(t, StatusPending, InitialStatus(KindInvoice))
	assert.Equal(t, StatusReceived, InitialStatus(KindReceipt))
	assert.Equal(t, StatusIssued, InitialStatus(KindStatement))
}

func TestCanTransition_Quotation(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusToSend, StatusSent, true},
		{StatusSent, StatusWon, true},
		{StatusSent, StatusRejected, true},
		{StatusSent, StatusLost, true},
		{StatusToSend, StatusWon, false}, // must be sent first
		{StatusWon, StatusSent, false},  // terminal
		{StatusRejected, StatusWon, false},
		{StatusLost, StatusSent, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(KindQuotation, tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCanTransition_Invoice(t *testing.T) {
	assert.True(t, CanTransition(KindInvoice, StatusPending, StatusPaid))
	assert.True(t, CanTransition(KindInvoice, StatusPending, StatusUnbanked))
	assert.True(t, CanTransition(KindInvoice, StatusUnbanked, StatusPaid))

	assert.False(t, CanTransition(KindInvoice, StatusPaid, StatusPending))
	assert.False(t, CanTransition(KindInvoice, StatusUnbanked, StatusPending))
	// Quotation states never apply to invoices
	assert.False(t, CanTransition(KindInvoice, StatusPending, StatusWon))
}

func TestCanTransition_ReceiptIsFrozen(t *testing.T) {
	for _, to := range []Status{StatusPending, StatusPaid, StatusSent, StatusReceived} {
		assert.False(t, CanTransition(KindReceipt, StatusReceived, to))
	}
	assert.True(t, IsTerminal(KindReceipt, StatusReceived))
}

func TestDocument_Transition(t *testing.T) {
	client, business := testParties()
	doc := New(KindQuotation, "T1", client, business, time.Now().UTC())
	doc.AddLine(nil, "Work", 1, types.MustMoney("100"))

	require.NoError(t, doc.Transition(StatusSent))
	require.NoError(t, doc.Transition(StatusWon))

	err := doc.Transition(StatusLost)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	// Status unchanged after rejected transition
	assert.Equal(t, StatusWon, doc.Status)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(KindQuotation, StatusLost))
	assert.True(t, ValidStatus(KindInvoice, StatusUnbanked))
	assert.False(t, ValidStatus(KindQuotation, StatusPaid))
	assert.False(t, ValidStatus(KindReceipt, StatusPending))
}
