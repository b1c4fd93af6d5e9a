package request

import "github.com/sangkips/cleanops-api/internal/domain/entity"

// ClientRequest creates or replaces a client
type ClientRequest struct {
	Name           string                `json:"name" binding:"required,max=255"`
	CompanyName    *string               `json:"company_name" binding:"omitempty,max=255"`
	Emails         []entity.ContactEmail `json:"emails" binding:"omitempty,dive"`
	Phones         []entity.ContactPhone `json:"phones" binding:"omitempty,dive"`
	BillingAddress entity.Address        `json:"billing_address"`
	Notes          *string               `json:"notes"`
}

// PropertyRequest creates or replaces a service address
type PropertyRequest struct {
	Name    string                 `json:"name" binding:"omitempty,max=255"`
	Address entity.Address         `json:"address"`
	Details entity.PropertyDetails `json:"details"`
	Notes   *string                `json:"notes"`
}

// LeadRequest creates or replaces a lead
type LeadRequest struct {
	Name         string                 `json:"name" binding:"required,max=255"`
	Email        *string                `json:"email" binding:"omitempty,email"`
	Phone        *string                `json:"phone" binding:"omitempty,max=50"`
	Source       string                 `json:"source" binding:"omitempty,oneof=manual website referral"`
	ServiceTypes []string               `json:"service_types"`
	Message      *string                `json:"message"`
	Address      entity.Address         `json:"address"`
	Details      entity.PropertyDetails `json:"details"`
}

// LeadFilterRequest represents lead list filters
type LeadFilterRequest struct {
	Search string `form:"search"`
	Status string `form:"status"`
}
