package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is a site belonging to a client where work is done
type Property struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	ClientID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Name      string          `gorm:"size:255" json:"name"`
	Address   Address         `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Details   PropertyDetails `gorm:"type:jsonb;serializer:json" json:"details"`
	Notes     *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new property
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Property model
func (Property) TableName() string {
	return "properties"
}
