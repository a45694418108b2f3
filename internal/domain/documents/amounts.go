package documents

import (
	"billhub/internal/core/types"
)

// TaxRate is the flat sales tax applied to the discounted subtotal.
var TaxRate = types.MustMoney("0.15")

// Amounts holds the derived totals of a document.
type Amounts struct {
	// Subtotal is the sum of line totals
	Subtotal types.Money `json:"subtotal"`

	// PreTax is subtotal minus discount. A discount larger than the subtotal
	// yields a negative taxable base; the value is carried as-is so the
	// output always reconciles arithmetically with its inputs.
	PreTax types.Money `json:"preTax"`

	// Tax is PreTax times TaxRate
	Tax types.Money `json:"tax"`

	// GrandTotal is PreTax plus Tax
	GrandTotal types.Money `json:"grandTotal"`
}

// CalculateAmounts derives totals from lines and discount. Every step is
// rounded to money scale, half away from zero.
func CalculateAmounts(lines []LineItem, discount types.Money) Amounts {
	subtotal := types.Zero()
	for _, line := range lines {
		subtotal = subtotal.Add(line.Total())
	}
	subtotal = types.RoundMoney(subtotal)

	preTax := types.RoundMoney(subtotal.Sub(discount))
	tax := types.RoundMoney(preTax.Mul(TaxRate))
	grand := types.RoundMoney(preTax.Add(tax))

	return Amounts{
		Subtotal:   subtotal,
		PreTax:     preTax,
		Tax:        tax,
		GrandTotal: grand,
	}
}
