package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoice(t *testing.T) {
	out, err := RenderInvoice(InvoiceData{
		BusinessName:  "Sparkle Cleaning",
		InvoiceNumber: "INV-202603-ABCD1234",
		ClientName:    "Dana Client",
		Items: []InvoiceItem{
			{Description: "Standard clean", Quantity: "2", UnitPrice: "50.00", Amount: "100.00"},
			{Description: "Deep clean", Quantity: "1", UnitPrice: "150.00", Amount: "150.00"},
		},
		Currency:   "CAD",
		Subtotal:   "250.00",
		TaxRate:    "13",
		TaxAmount:  "32.50",
		Total:      "282.50",
		AmountPaid: "150.00",
		BalanceDue: "132.50",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
