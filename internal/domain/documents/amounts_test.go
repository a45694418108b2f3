package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billhub/internal/core/types"
)

func testParties() (PartySnapshot, PartySnapshot) {
	client := PartySnapshot{Name: "Alice Tech", Email: "alice@example.com"}
	business := PartySnapshot{Name: "Alice Solutions Ltd", Company: "Alice Solutions Ltd"}
	return client, business
}

func TestCalculateAmounts_FlatTax(t *testing.T) {
	lines := []LineItem{
		{Quantity: 1, UnitPrice: types.MustMoney("25000")},
	}

	a := CalculateAmounts(lines, types.Zero())

	assert.True(t, types.MoneyEqual(types.MustMoney("25000"), a.Subtotal), "subtotal = %s", a.Subtotal)
	assert.True(t, types.MoneyEqual(types.MustMoney("25000"), a.PreTax))
	assert.True(t, types.MoneyEqual(types.MustMoney("3750"), a.Tax), "tax = %s", a.Tax)
	assert.True(t, types.MoneyEqual(types.MustMoney("28750"), a.GrandTotal), "grand = %s", a.GrandTotal)
}

func TestCalculateAmounts_DiscountBeforeTax(t *testing.T) {
	lines := []LineItem{
		{Quantity: 2, UnitPrice: types.MustMoney("500")},  // 1000
		{Quantity: 3, UnitPrice: types.MustMoney("200")},  // 600
	}

	a := CalculateAmounts(lines, types.MustMoney("100"))

	assert.True(t, types.MoneyEqual(types.MustMoney("1600"), a.Subtotal))
	assert.True(t, types.MoneyEqual(types.MustMoney("1500"), a.PreTax))
	assert.True(t, types.MoneyEqual(types.MustMoney("225"), a.Tax))
	assert.True(t, types.MoneyEqual(types.MustMoney("1725"), a.GrandTotal))
}

// A discount larger than the subtotal is carried through untouched, so the
// chain subtotal -> preTax -> tax -> grand always reconciles.
func TestCalculateAmounts_OverDiscountGoesNegative(t *testing.T) {
	lines := []LineItem{
		{Quantity: 1, UnitPrice: types.MustMoney("100")},
	}

	a := CalculateAmounts(lines, types.MustMoney("150"))

	assert.True(t, types.MoneyEqual(types.MustMoney("-50"), a.PreTax))
	assert.True(t, types.MoneyEqual(types.MustMoney("-7.50"), a.Tax))
	assert.True(t, types.MoneyEqual(types.MustMoney("-57.50"), a.GrandTotal))
}

func TestCalculateAmounts_RoundsHalfAwayFromZero(t *testing.T) {
	lines := []LineItem{
		{Quantity: 1, UnitPrice: types.MustMoney("0.10")},
	}

	a := CalculateAmounts(lines, types.Zero())

	// 0.10 * 0.15 = 0.015 -> 0.02
	assert.Equal(t, "0.02", a.Tax.StringFixed(2))
	assert.Equal(t, "0.12", a.GrandTotal.StringFixed(2))
}

func TestCalculateAmounts_Empty(t *testing.T) {
	a := CalculateAmounts(nil, types.Zero())

	assert.True(t, a.Subtotal.IsZero())
	assert.True(t, a.GrandTotal.IsZero())
}

func TestDocument_RecalculateOnAddLine(t *testing.T) {
	client, business := testParties()
	now := time.Date(2026, time.February, 4, 10, 15, 0, 0, time.UTC)

	doc := New(KindQuotation, "T1", client, business, now)
	doc.AddLine(nil, "Consulting", 1, types.MustMoney("25000"))

	assert.Equal(t, "Q-ATAS-0204261015", doc.Code)
	assert.True(t, types.MoneyEqual(types.MustMoney("28750"), doc.GrandTotal))

	doc.SetDiscount(types.MustMoney("5000"))
	assert.True(t, types.MoneyEqual(types.MustMoney("20000"), doc.PreTax))
	assert.True(t, types.MoneyEqual(types.MustMoney("23000"), doc.GrandTotal))
}

func TestDocument_Validate(t *testing.T) {
	client, business := testParties()
	now := time.Now().UTC()

	doc := New(KindQuotation, "T1", client, business, now)
	doc.AddLine(nil, "Work", 1, types.MustMoney("100"))
	require.NoError(t, doc.Validate(t.Context()))

	t.Run("missing tenant", func(t *testing.T) {
		d := New(KindQuotation, "", client, business, now)
		d.AddLine(nil, "Work", 1, types.MustMoney("100"))
		assert.Error(t, d.Validate(t.Context()))
	})

	t.Run("no lines", func(t *testing.T) {
		d := New(KindQuotation, "T1", client, business, now)
		assert.Error(t, d.Validate(t.Context()))
	})

	t.Run("statement needs no lines", func(t *testing.T) {
		d := New(KindStatement, "T1", client, business, now)
		assert.NoError(t, d.Validate(t.Context()))
	})

	t.Run("zero quantity", func(t *testing.T) {
		d := New(KindQuotation, "T1", client, business, now)
		d.AddLine(nil, "Work", 0, types.MustMoney("100"))
		assert.Error(t, d.Validate(t.Context()))
	})

	t.Run("status from another kind", func(t *testing.T) {
		d := New(KindQuotation, "T1", client, business, now)
		d.AddLine(nil, "Work", 1, types.MustMoney("100"))
		d.Status = StatusPaid
		assert.Error(t, d.Validate(t.Context()))
	})
}
