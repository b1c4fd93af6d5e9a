package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Membership roles inside a tenant
const (
	MembershipRoleOwner  = "owner"
	MembershipRoleAdmin  = "admin"
	MembershipRoleMember = "member"
)

// Tenant is a cleaning business. Every business row belongs to exactly one.
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Active    bool           `gorm:"default:true" json:"active"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Members []TenantMembership `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantSettings holds per-business configuration
type TenantSettings struct {
	Currency           string          `json:"currency,omitempty"`
	Timezone           string          `json:"timezone,omitempty"`
	DefaultTaxRate     decimal.Decimal `json:"default_tax_rate"`
	TaxLabel           string          `json:"tax_label,omitempty"`
	InvoicePrefix      string          `json:"invoice_prefix,omitempty"`
	EstimatePrefix     string          `json:"estimate_prefix,omitempty"`
	JobPrefix          string          `json:"job_prefix,omitempty"`
	PaymentTermsDays   int             `json:"payment_terms_days,omitempty"`
	IntakeFormToken    string          `json:"intake_form_token,omitempty"`
	EmailNotifications bool            `json:"email_notifications"`
}

// DefaultTenantSettings returns default settings for new tenants
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:           "CAD",
		Timezone:           "America/Toronto",
		DefaultTaxRate:     decimal.NewFromInt(13),
		TaxLabel:           "HST",
		InvoicePrefix:      "INV",
		EstimatePrefix:     "EST",
		JobPrefix:          "JOB",
		PaymentTermsDays:   14,
		EmailNotifications: true,
	}
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// TenantMembership links a user to a tenant with a role
type TenantMembership struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// TableName returns the table name for the TenantMembership model
func (TenantMembership) TableName() string {
	return "tenant_memberships"
}

// PopulateUserDetails fills MemberUser from the preloaded User
func (tm *TenantMembership) PopulateUserDetails() {
	if tm.User.ID != uuid.Nil {
		tm.MemberUser = &MemberUser{
			ID:        tm.User.ID,
			FirstName: tm.User.FirstName,
			LastName:  tm.User.LastName,
			Email:     tm.User.Email,
		}
	}
}

// CanManage reports whether the member may change settings and the team
func (tm *TenantMembership) CanManage() bool {
	return tm.Role == MembershipRoleOwner || tm.Role == MembershipRoleAdmin
}

// ValidMembershipRole reports whether role can be assigned through the API.
// Ownership only changes hands at registration.
func ValidMembershipRole(role string) bool {
	return role == MembershipRoleAdmin || role == MembershipRoleMember
}
