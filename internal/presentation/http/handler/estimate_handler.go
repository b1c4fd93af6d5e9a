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

// EstimateHandler handles quotes
type EstimateHandler struct {
	estimateService *service.EstimateService
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimateService *service.EstimateService) *EstimateHandler {
	return &EstimateHandler{estimateService: estimateService}
}

func estimateInput(req *request.EstimateRequest) *service.EstimateInput {
	return &service.EstimateInput{
		ClientID:   req.ClientID,
		PropertyID: req.PropertyID,
		Title:      req.Title,
		TaxRate:    req.TaxRate,
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
		LineItems:  lineInputs(req.LineItems),
	}
}

// List handles GET /estimates
func (h *EstimateHandler) List(c *gin.Context) {
	var filter repository.EstimateFilter
	if raw := c.Query("status"); raw != "" {
		status, err := enum.ParseEstimateStatus(raw)
		if err != nil {
			response.Error(c, statusError(err))
			return
		}
		filter.Status = &status
	}
	clientID, ok := queryUUID(c, "client_id")
	if !ok {
		return
	}
	filter.ClientID = clientID

	result, err := h.estimateService.ListEstimates(c.Request.Context(), scope(c), pageParams(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Estimates retrieved", response.NewEstimateList(result))
}

// Create handles POST /estimates
func (h *EstimateHandler) Create(c *gin.Context) {
	var req request.EstimateRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.estimateService.CreateEstimate(c.Request.Context(), scope(c), estimateInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Estimate created", response.NewEstimateResponse(detail))
}

// Get handles GET /estimates/:id
func (h *EstimateHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	detail, err := h.estimateService.GetEstimate(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Estimate retrieved", response.NewEstimateResponse(detail))
}

// Update handles PUT /estimates/:id
func (h *EstimateHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.EstimateRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.estimateService.UpdateEstimate(c.Request.Context(), scope(c), id, estimateInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Estimate updated", response.NewEstimateResponse(detail))
}

// UpdateStatus handles PATCH /estimates/:id/status
func (h *EstimateHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseEstimateStatus(req.Status)
	if err != nil {
		response.Error(c, statusError(err))
		return
	}

	detail, err := h.estimateService.UpdateEstimateStatus(c.Request.Context(), scope(c), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Estimate status updated", response.NewEstimateResponse(detail))
}

// Convert handles POST /estimates/:id/convert, booking the estimate as a job
func (h *EstimateHandler) Convert(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.ConvertEstimateRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	job, err := h.estimateService.ConvertToJob(c.Request.Context(), scope(c), id, &service.ConvertToJobInput{
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Job booked from estimate", job)
}

// Delete handles DELETE /estimates/:id
func (h *EstimateHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.estimateService.DeleteEstimate(c.Request.Context(), scope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
