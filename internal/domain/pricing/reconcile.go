package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PaymentState is the settlement state derived from the balance
type PaymentState string

const (
	PaymentStateUnpaid   PaymentState = "unpaid"
	PaymentStatePartial  PaymentState = "partial"
	PaymentStatePaid     PaymentState = "paid"
	PaymentStateOverpaid PaymentState = "overpaid"
)

// Reconciliation is what has been paid against a total
type Reconciliation struct {
	AmountPaid decimal.Decimal
	BalanceDue decimal.Decimal
}

// Reconcile sums payments against total. The balance is never clamped, so an
// overpaid invoice reports a negative balance.
func Reconcile(total decimal.Decimal, payments []decimal.Decimal) Reconciliation {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(bounded(p))
	}
	paid = paid.Round(Places)

	return Reconciliation{
		AmountPaid: paid,
		BalanceDue: bounded(total).Round(Places).Sub(paid),
	}
}

// IsSettled reports whether nothing remains to be collected
func (r Reconciliation) IsSettled() bool {
	return !r.BalanceDue.IsPositive()
}

// State classifies the reconciliation
func (r Reconciliation) State() PaymentState {
	switch {
	case r.BalanceDue.IsNegative():
		return PaymentStateOverpaid
	case r.BalanceDue.IsZero():
		return PaymentStatePaid
	case r.AmountPaid.IsZero():
		return PaymentStateUnpaid
	default:
		return PaymentStatePartial
	}
}

func (r Reconciliation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AmountPaid string `json:"amount_paid"`
		BalanceDue string `json:"balance_due"`
	}{
		AmountPaid: r.AmountPaid.StringFixed(Places),
		BalanceDue: r.BalanceDue.StringFixed(Places),
	})
}

// Summary is the full money picture of one invoice
type Summary struct {
	Breakdown      Breakdown      `json:"pricing"`
	Reconciliation Reconciliation `json:"payments"`
	PaymentState   PaymentState   `json:"payment_state"`
}

// Summarize prices the items and reconciles the payments in one step
func Summarize(items []LineItem, taxRatePercent decimal.Decimal, payments []decimal.Decimal) Summary {
	b := ComputePricing(items, taxRatePercent)
	r := Reconcile(b.Total, payments)
	return Summary{Breakdown: b, Reconciliation: r, PaymentState: r.State()}
}
