package enum

// IsEditable reports whether line items and tax may still change
func (s InvoiceStatus) IsEditable() bool {
	return s == InvoiceStatusDraft
}

// IsCollectable reports whether the invoice counts toward outstanding balances
func (s InvoiceStatus) IsCollectable() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue || s == InvoiceStatusPaid
}

// IsOpen reports whether the lead is still being worked
func (s LeadStatus) IsOpen() bool {
	return s == LeadStatusNew || s == LeadStatusContacted || s == LeadStatusQualified
}

// IsActive reports whether the job still needs a crew
func (s JobStatus) IsActive() bool {
	return s == JobStatusScheduled || s == JobStatusInProgress
}

// IsEditable reports whether the estimate may still be revised
func (s EstimateStatus) IsEditable() bool {
	return s == EstimateStatusDraft || s == EstimateStatusSent
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:      {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:   {InvoiceStatusPaid, InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusPaid:      {InvoiceStatusSent},
	InvoiceStatusCancelled: {},
}

// CanTransitionTo reports whether a user may move an invoice from s to next.
// PAID back to SENT reopens an invoice after a payment is removed.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
