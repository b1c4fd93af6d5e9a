package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRequest creates or replaces a draft invoice
type InvoiceRequest struct {
	ClientID  uuid.UUID         `json:"client_id" binding:"required"`
	JobID     *uuid.UUID        `json:"job_id"`
	IssueDate *time.Time        `json:"issue_date"`
	DueDate   *time.Time        `json:"due_date"`
	TaxRate   *decimal.Decimal  `json:"tax_rate"`
	Notes     *string           `json:"notes"`
	LineItems []LineItemRequest `json:"line_items" binding:"required,min=1,dive"`
}

// PreviewLineRequest is an unsaved line from the invoice editor. Values are
// passed through as typed by the user.
type PreviewLineRequest struct {
	Quantity  any `json:"quantity"`
	UnitPrice any `json:"unit_price"`
}

// PreviewRequest prices an unsaved invoice form
type PreviewRequest struct {
	LineItems []PreviewLineRequest `json:"line_items"`
	TaxRate   any                  `json:"tax_rate"`
	Payments  []any                `json:"payments"`
}

// PaymentRequest records money received against an invoice
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required"`
	PaidAt    *time.Time      `json:"paid_at"`
	Reference *string         `json:"reference" binding:"omitempty,max=255"`
	Notes     *string         `json:"notes"`
}
