package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
)

// LeadHandler handles the sales pipeline
type LeadHandler struct {
	leadService *service.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

func leadInput(req *request.LeadRequest) *service.LeadInput {
	return &service.LeadInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Source:       req.Source,
		ServiceTypes: req.ServiceTypes,
		Message:      req.Message,
		Address:      req.Address,
		Details:      req.Details,
	}
}

// List handles GET /leads
func (h *LeadHandler) List(c *gin.Context) {
	var q request.LeadFilterRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := repository.LeadFilter{Search: q.Search}
	if q.Status != "" {
		status, err := enum.ParseLeadStatus(q.Status)
		if err != nil {
			response.Error(c, statusError(err))
			return
		}
		filter.Status = &status
	}

	result, err := h.leadService.ListLeads(c.Request.Context(), scope(c), pageParams(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Leads retrieved", result)
}

// Create handles POST /leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req request.LeadRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), scope(c), leadInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Lead created", lead)
}

// Get handles GET /leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	lead, err := h.leadService.GetLead(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lead retrieved", lead)
}

// Update handles PUT /leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.LeadRequest
	if !bindJSON(c, &req) {
		return
	}

	lead, err := h.leadService.UpdateLead(c.Request.Context(), scope(c), id, leadInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lead updated", lead)
}

// UpdateStatus handles PATCH /leads/:id/status
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseLeadStatus(req.Status)
	if err != nil {
		response.Error(c, statusError(err))
		return
	}

	lead, err := h.leadService.UpdateLeadStatus(c.Request.Context(), scope(c), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lead status updated", lead)
}

// Convert handles POST /leads/:id/convert
func (h *LeadHandler) Convert(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	out, err := h.leadService.ConvertLead(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Lead converted", response.ConvertLeadResponse{
		Lead:     out.Lead,
		Client:   out.Client,
		Property: out.Property,
	})
}

// Delete handles DELETE /leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.leadService.DeleteLead(c.Request.Context(), scope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
