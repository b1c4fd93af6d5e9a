package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Lead sources
const (
	LeadSourceManual   = "manual"
	LeadSourceWebsite  = "website"
	LeadSourceReferral = "referral"
)

// Lead is a prospect who has not become a client yet
type Lead struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Email        *string         `gorm:"size:255" json:"email,omitempty"`
	Phone        *string         `gorm:"size:50" json:"phone,omitempty"`
	Source       string          `gorm:"size:50;default:'manual'" json:"source"`
	ServiceTypes []string        `gorm:"type:jsonb;serializer:json" json:"service_types"`
	Status       enum.LeadStatus `gorm:"default:0;index" json:"status"`
	Message      *string         `gorm:"type:text" json:"message,omitempty"`
	Address      Address         `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Details      PropertyDetails `gorm:"type:jsonb;serializer:json" json:"details"`
	ClientID     *uuid.UUID      `gorm:"type:uuid;index" json:"client_id,omitempty"`
	ConvertedAt  *time.Time      `json:"converted_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new lead
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Lead model
func (Lead) TableName() string {
	return "leads"
}
