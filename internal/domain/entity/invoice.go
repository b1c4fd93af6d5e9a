package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice bills a client. It stores no subtotal, tax or total columns; those
// are derived from LineItems and Payments on every read.
type Invoice struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_tenant_number" json:"tenant_id"`
	Number    string             `gorm:"size:50;not null;uniqueIndex:idx_invoices_tenant_number" json:"number"`
	ClientID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"client_id"`
	JobID     *uuid.UUID         `gorm:"type:uuid;index" json:"job_id,omitempty"`
	Status    enum.InvoiceStatus `gorm:"default:0;index" json:"status"`
	IssueDate time.Time          `gorm:"not null" json:"issue_date"`
	DueDate   *time.Time         `json:"due_date,omitempty"`
	TaxRate   decimal.Decimal    `gorm:"type:decimal(7,3);not null;default:0" json:"tax_rate"`
	Notes     *string            `gorm:"type:text" json:"notes,omitempty"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	DeletedAt gorm.DeletedAt     `gorm:"index" json:"-"`

	Client    *Client           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
	Payments  []Payment         `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// PaymentAmounts lists the amounts of the loaded payments
func (i *Invoice) PaymentAmounts() []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(i.Payments))
	for n, p := range i.Payments {
		amounts[n] = p.Amount
	}
	return amounts
}

// Summary prices the loaded line items and reconciles the loaded payments.
// Both associations must be preloaded.
func (i *Invoice) Summary() pricing.Summary {
	return pricing.Summarize(PricingLines(i.LineItems), i.TaxRate, i.PaymentAmounts())
}

// IsOverdue reports whether an unsettled, sent invoice is past its due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.DueDate == nil || i.Status != enum.InvoiceStatusSent {
		return false
	}
	return now.After(*i.DueDate)
}

// InvoiceLineItem is one billable row of an invoice
type InvoiceLineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	LineFields
}

// BeforeCreate generates a UUID before creating a new line
func (li *InvoiceLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceLineItem model
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}
