package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cleanops-api/internal/presentation/http/middleware"
)

// TenantHandler handles the current business and its team
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// ListMine returns every business the user belongs to. It runs without a
// tenant so the frontend can offer a switcher.
func (h *TenantHandler) ListMine(c *gin.Context) {
	tenants, err := h.tenantService.GetUserTenants(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tenants retrieved", tenants)
}

// GetCurrent returns the business the request is scoped to
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenant, err := h.tenantService.GetCurrent(c.Request.Context(), scope(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tenant retrieved", tenant)
}

// Update changes business details and settings. Owners and admins only.
func (h *TenantHandler) Update(c *gin.Context) {
	var req request.UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), scope(c), &service.UpdateTenantInput{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Currency:           req.Currency,
		Timezone:           req.Timezone,
		DefaultTaxRate:     req.DefaultTaxRate,
		TaxLabel:           req.TaxLabel,
		InvoicePrefix:      req.InvoicePrefix,
		EstimatePrefix:     req.EstimatePrefix,
		JobPrefix:          req.JobPrefix,
		PaymentTermsDays:   req.PaymentTermsDays,
		EmailNotifications: req.EmailNotifications,
		RotateIntakeToken:  req.RotateIntakeToken,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tenant updated", tenant)
}

// ListMembers returns the team
func (h *TenantHandler) ListMembers(c *gin.Context) {
	members, err := h.tenantService.GetMembers(c.Request.Context(), scope(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Members retrieved", members)
}

// InviteMember adds an existing user to the team
func (h *TenantHandler) InviteMember(c *gin.Context) {
	var req request.InviteMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.tenantService.InviteMember(c.Request.Context(), scope(c), req.Email, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Member added", member)
}

// UpdateMemberRole changes a member's role
func (h *TenantHandler) UpdateMemberRole(c *gin.Context) {
	userID, ok := paramUUID(c, "user_id")
	if !ok {
		return
	}
	var req request.UpdateMemberRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.tenantService.UpdateMemberRole(c.Request.Context(), scope(c), userID, req.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Member role updated", nil)
}

// RemoveMember removes someone from the team
func (h *TenantHandler) RemoveMember(c *gin.Context) {
	userID, ok := paramUUID(c, "user_id")
	if !ok {
		return
	}

	if err := h.tenantService.RemoveMember(c.Request.Context(), scope(c), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
