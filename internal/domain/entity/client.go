package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer of the cleaning business
type Client struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	CompanyName    *string        `gorm:"size:255" json:"company_name,omitempty"`
	Emails         []ContactEmail `gorm:"type:jsonb;serializer:json" json:"emails"`
	Phones         []ContactPhone `gorm:"type:jsonb;serializer:json" json:"phones"`
	BillingAddress Address        `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`
	Notes          *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Properties []Property `gorm:"foreignKey:ClientID" json:"properties,omitempty"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// PrimaryEmail returns the first email address, or "" when none is on file
func (c *Client) PrimaryEmail() string {
	if len(c.Emails) == 0 {
		return ""
	}
	return c.Emails[0].Address
}

// PrimaryPhone returns the first phone number, or ""
func (c *Client) PrimaryPhone() string {
	if len(c.Phones) == 0 {
		return ""
	}
	return c.Phones[0].Number
}
