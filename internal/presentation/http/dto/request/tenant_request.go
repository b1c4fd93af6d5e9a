package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UpdateTenantRequest patches business details and settings. Absent fields
// are left unchanged.
type UpdateTenantRequest struct {
	Name               *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Email              *string          `json:"email" binding:"omitempty,email"`
	Phone              *string          `json:"phone" binding:"omitempty,max=50"`
	Currency           *string          `json:"currency" binding:"omitempty,len=3"`
	Timezone           *string          `json:"timezone" binding:"omitempty,max=64"`
	DefaultTaxRate     *decimal.Decimal `json:"default_tax_rate"`
	TaxLabel           *string          `json:"tax_label" binding:"omitempty,max=20"`
	InvoicePrefix      *string          `json:"invoice_prefix" binding:"omitempty,max=10"`
	EstimatePrefix     *string          `json:"estimate_prefix" binding:"omitempty,max=10"`
	JobPrefix          *string          `json:"job_prefix" binding:"omitempty,max=10"`
	PaymentTermsDays   *int             `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	EmailNotifications *bool            `json:"email_notifications"`
	RotateIntakeToken  bool             `json:"rotate_intake_token"`
}

// InviteMemberRequest adds an existing user to the team
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=admin member"`
}

// UpdateMemberRoleRequest changes a team member's role
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin member"`
}

// AssignUserRequest places a user in any tenant
type AssignUserRequest struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Email    string    `json:"email" binding:"required,email"`
	Role     string    `json:"role" binding:"omitempty,oneof=admin member"`
}

// TenantActiveRequest suspends or reactivates a tenant
type TenantActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// IntakeRequest is a booking form posted from a tenant's website. The
// "website" field is a honeypot left blank by people.
type IntakeRequest struct {
	Token    string                 `json:"token"`
	Name     string                 `json:"name"`
	Email    string                 `json:"email" binding:"omitempty,email"`
	Phone    string                 `json:"phone" binding:"omitempty,max=50"`
	Services []string               `json:"services"`
	Message  string                 `json:"message" binding:"omitempty,max=5000"`
	Address  entity.Address         `json:"address"`
	Details  entity.PropertyDetails `json:"details"`
	Website  string                 `json:"website"`
}
