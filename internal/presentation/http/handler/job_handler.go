package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/repository"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cleanops-api/pkg/apperror"
)

// JobHandler handles booked work and visits
type JobHandler struct {
	jobService *service.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func jobInput(req *request.JobRequest) *service.JobInput {
	return &service.JobInput{
		ClientID:       req.ClientID,
		PropertyID:     req.PropertyID,
		Title:          req.Title,
		Instructions:   req.Instructions,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		AssignedUserID: req.AssignedUserID,
		LineItems:      lineInputs(req.LineItems),
	}
}

// List handles GET /jobs
func (h *JobHandler) List(c *gin.Context) {
	var filter repository.JobFilter
	if raw := c.Query("status"); raw != "" {
		status, err := enum.ParseJobStatus(raw)
		if err != nil {
			response.Error(c, statusError(err))
			return
		}
		filter.Status = &status
	}
	var ok bool
	if filter.ClientID, ok = queryUUID(c, "client_id"); !ok {
		return
	}
	if filter.From, ok = queryTime(c, "from"); !ok {
		return
	}
	if filter.To, ok = queryRangeEnd(c, "to"); !ok {
		return
	}

	result, err := h.jobService.ListJobs(c.Request.Context(), scope(c), pageParams(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Jobs retrieved", response.NewJobList(result))
}

// Create handles POST /jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req request.JobRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.jobService.CreateJob(c.Request.Context(), scope(c), jobInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Job created", response.NewJobResponse(detail))
}

// Get handles GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	detail, err := h.jobService.GetJob(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Job retrieved", response.NewJobResponse(detail))
}

// Update handles PUT /jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.JobRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.jobService.UpdateJob(c.Request.Context(), scope(c), id, jobInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Job updated", response.NewJobResponse(detail))
}

// UpdateStatus handles PATCH /jobs/:id/status
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseJobStatus(req.Status)
	if err != nil {
		response.Error(c, statusError(err))
		return
	}

	detail, err := h.jobService.UpdateJobStatus(c.Request.Context(), scope(c), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Job status updated", response.NewJobResponse(detail))
}

// Delete handles DELETE /jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), scope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddVisit handles POST /jobs/:id/visits
func (h *JobHandler) AddVisit(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.VisitRequest
	if !bindJSON(c, &req) {
		return
	}

	visit, err := h.jobService.AddVisit(c.Request.Context(), scope(c), id, &service.VisitInput{
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		AssignedUserID:  req.AssignedUserID,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Visit scheduled", visit)
}

// CompleteVisit handles POST /jobs/:id/visits/:visit_id/complete
func (h *JobHandler) CompleteVisit(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	visitID, ok := paramUUID(c, "visit_id")
	if !ok {
		return
	}
	var req request.CompleteVisitRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	visit, err := h.jobService.CompleteVisit(c.Request.Context(), scope(c), id, visitID, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Visit completed", visit)
}

// Calendar handles GET /visits?from=&to=
func (h *JobHandler) Calendar(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryRangeEnd(c, "to")
	if !ok {
		return
	}
	if from == nil || to == nil {
		response.Error(c, apperror.NewBadRequestError("from and to are required"))
		return
	}

	visits, err := h.jobService.ListVisits(c.Request.Context(), scope(c), *from, *to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Visits retrieved", visits)
}

// CreateInvoice handles POST /jobs/:id/invoice, billing the job's lines
func (h *JobHandler) CreateInvoice(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	detail, err := h.jobService.CreateInvoice(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Invoice created from job", response.NewInvoiceResponse(detail))
}
