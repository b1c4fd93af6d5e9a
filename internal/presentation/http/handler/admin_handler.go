package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
)

// AdminHandler handles platform administration for super admins
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.GetPlatformStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Platform stats retrieved", stats)
}

// ListTenants handles listing every business on the platform
// @Summary List tenants
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(15)
// @Param search query string false "Name or slug"
// @Success 200 {object} response.APIResponse
// @Router /admin/tenants [get]
func (h *AdminHandler) ListTenants(c *gin.Context) {
	result, err := h.adminService.ListTenants(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Tenants retrieved", result)
}

// SetTenantActive suspends or reactivates a tenant
func (h *AdminHandler) SetTenantActive(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.TenantActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	tenant, err := h.adminService.SetTenantActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Tenant activated"
	if !tenant.Active {
		message = "Tenant suspended"
	}
	response.OK(c, message, tenant)
}

// AssignUser handles POST /admin/memberships
func (h *AdminHandler) AssignUser(c *gin.Context) {
	var req request.AssignUserRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := h.adminService.AssignUserToTenant(c.Request.Context(), &service.AssignUserInput{
		TenantID: req.TenantID,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User assigned to tenant", membership)
}

// GrantSuperAdmin handles POST /admin/users/:id/super-admin
func (h *AdminHandler) GrantSuperAdmin(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	user, err := h.adminService.GrantSuperAdmin(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Super admin granted", user)
}
