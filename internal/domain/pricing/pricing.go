// Package pricing computes invoice totals and payment balances. Every
// surface that shows money (invoice detail, invoice list, live preview,
// payments dashboard) goes through these functions so the numbers agree.
package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places for every monetary output
const Places = 2

var hundred = decimal.NewFromInt(100)

// LineItem is one billable row. A stored line total is never consulted.
type LineItem struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Line builds a LineItem from loosely typed values
func Line(quantity, unitPrice any) LineItem {
	return LineItem{Quantity: Coerce(quantity), UnitPrice: Coerce(unitPrice)}
}

// Amount is quantity × unit price rounded for display
func (l LineItem) Amount() decimal.Decimal {
	return bounded(l.Quantity).Mul(bounded(l.UnitPrice)).Round(Places)
}

// Breakdown is the derived price of a set of line items
type Breakdown struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	TaxRatePercent decimal.Decimal
}

// ComputePricing sums the line items and applies the tax rate. Subtotal and
// tax are each rounded half-up to cents, and Total is their exact sum.
// Values outside Bounded count as zero.
func ComputePricing(items []LineItem, taxRatePercent decimal.Decimal) Breakdown {
	taxRatePercent = bounded(taxRatePercent)
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(bounded(item.Quantity).Mul(bounded(item.UnitPrice)))
	}
	subtotal = subtotal.Round(Places)

	tax := subtotal.Mul(taxRatePercent).Div(hundred).Round(Places)

	return Breakdown{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		Total:          subtotal.Add(tax),
		TaxRatePercent: taxRatePercent,
	}
}

func (b Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal       string `json:"subtotal"`
		TaxAmount      string `json:"tax_amount"`
		Total          string `json:"total"`
		TaxRatePercent string `json:"tax_rate_percent"`
	}{
		Subtotal:       b.Subtotal.StringFixed(Places),
		TaxAmount:      b.TaxAmount.StringFixed(Places),
		Total:          b.Total.StringFixed(Places),
		TaxRatePercent: b.TaxRatePercent.String(),
	})
}
