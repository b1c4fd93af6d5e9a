package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is money received against an invoice. Payments are never edited;
// a mistaken one is deleted and recorded again.
type Payment struct {
	ID         uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	InvoiceID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount     decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method     enum.PaymentMethod `gorm:"default:0" json:"method"`
	PaidAt     time.Time          `gorm:"not null;index" json:"paid_at"`
	Reference  *string            `gorm:"size:255" json:"reference,omitempty"`
	Notes      *string            `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy uuid.UUID          `gorm:"type:uuid" json:"recorded_by"`
	CreatedAt  time.Time          `json:"created_at"`
	DeletedAt  gorm.DeletedAt     `gorm:"index" json:"-"`

	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
