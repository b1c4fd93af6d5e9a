package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
)

// FormTokenHeader carries the intake token when the form does not post it
const FormTokenHeader = "X-Form-Token"

// IntakeHandler serves the unauthenticated website booking form
type IntakeHandler struct {
	intakeService *service.IntakeService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intakeService *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intakeService: intakeService}
}

// ListServiceTypes handles GET /public/service-types
func (h *IntakeHandler) ListServiceTypes(c *gin.Context) {
	types, err := h.intakeService.ListServiceTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service types retrieved", types)
}

// Submit turns a website form into a lead
// @Summary Submit a booking form
// @Tags public
// @Accept json
// @Produce json
// @Param tenant_slug path string true "Business slug"
// @Param request body request.IntakeRequest true "Form"
// @Success 201 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /public/forms/{tenant_slug} [post]
func (h *IntakeHandler) Submit(c *gin.Context) {
	var req request.IntakeRequest
	if !bindJSON(c, &req) {
		return
	}
	token := req.Token
	if token == "" {
		token = c.GetHeader(FormTokenHeader)
	}

	result, err := h.intakeService.Submit(c.Request.Context(), c.Param("tenant_slug"), token, &service.IntakeForm{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Services: req.Services,
		Message:  req.Message,
		Address:  req.Address,
		Details:  req.Details,
		Honeypot: req.Website,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusCreated
	if result.Lead == nil {
		status = http.StatusAccepted
	}
	response.Success(c, status, "Thanks, we will be in touch soon", response.NewIntakeResponse(result))
}
