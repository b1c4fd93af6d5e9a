package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estimate is a priced quote sent to a client before work is booked
type Estimate struct {
	ID         uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_estimates_tenant_number" json:"tenant_id"`
	Number     string              `gorm:"size:50;not null;uniqueIndex:idx_estimates_tenant_number" json:"number"`
	ClientID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"client_id"`
	PropertyID *uuid.UUID          `gorm:"type:uuid;index" json:"property_id,omitempty"`
	Title      string              `gorm:"size:255" json:"title"`
	Status     enum.EstimateStatus `gorm:"default:0;index" json:"status"`
	TaxRate    decimal.Decimal     `gorm:"type:decimal(7,3);not null;default:0" json:"tax_rate"`
	ValidUntil *time.Time          `json:"valid_until,omitempty"`
	Notes      *string             `gorm:"type:text" json:"notes,omitempty"`
	JobID      *uuid.UUID          `gorm:"type:uuid" json:"job_id,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	DeletedAt  gorm.DeletedAt      `gorm:"index" json:"-"`

	Client    *Client            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	LineItems []EstimateLineItem `gorm:"foreignKey:EstimateID" json:"line_items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new estimate
func (e *Estimate) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Estimate model
func (Estimate) TableName() string {
	return "estimates"
}

// Pricing recomputes the estimate totals from its line items
func (e *Estimate) Pricing() pricing.Breakdown {
	return pricing.ComputePricing(PricingLines(e.LineItems), e.TaxRate)
}

// EstimateLineItem is one row of an estimate
type EstimateLineItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EstimateID uuid.UUID `gorm:"type:uuid;not null;index" json:"estimate_id"`
	LineFields
}

// BeforeCreate generates a UUID before creating a new line
func (li *EstimateLineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the EstimateLineItem model
func (EstimateLineItem) TableName() string {
	return "estimate_line_items"
}
