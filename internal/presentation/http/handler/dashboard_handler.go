package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles GET /dashboard
// @Summary Business dashboard
// @Description Revenue, outstanding balance, overdue invoices and upcoming work for the current business
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Param X-Tenant-Slug header string false "Business slug when not using a subdomain"
// @Success 200 {object} response.APIResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), scope(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
