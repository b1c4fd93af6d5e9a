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

// InvoiceHandler handles invoices and the live pricing preview
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func invoiceInput(req *request.InvoiceRequest) *service.InvoiceInput {
	return &service.InvoiceInput{
		ClientID:  req.ClientID,
		JobID:     req.JobID,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		TaxRate:   req.TaxRate,
		Notes:     req.Notes,
		LineItems: lineInputs(req.LineItems),
	}
}

// List returns invoices with totals derived from their lines and payments
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param search query string false "Number or client name"
// @Param status query string false "DRAFT, SENT, PAID, OVERDUE or CANCELLED"
// @Param client_id query string false "Client filter"
// @Success 200 {object} response.APIResponse
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := repository.InvoiceFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status, err := enum.ParseInvoiceStatus(raw)
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

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), scope(c), pageParams(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Invoices retrieved", response.NewInvoiceList(result))
}

// Create handles POST /invoices
// @Summary Create a draft invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body request.InvoiceRequest true "Invoice"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.invoiceService.CreateInvoice(c.Request.Context(), scope(c), invoiceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Invoice created", response.NewInvoiceResponse(detail))
}

// Get handles GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	detail, err := h.invoiceService.GetInvoice(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved", response.NewInvoiceResponse(detail))
}

// Update replaces a draft invoice. Sent invoices are locked.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.InvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.invoiceService.UpdateInvoice(c.Request.Context(), scope(c), id, invoiceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice updated", response.NewInvoiceResponse(detail))
}

// UpdateStatus handles PATCH /invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := enum.ParseInvoiceStatus(req.Status)
	if err != nil {
		response.Error(c, statusError(err))
		return
	}

	detail, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), scope(c), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice status updated", response.NewInvoiceResponse(detail))
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), scope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Preview prices an unsaved invoice form. Nothing is stored and malformed
// numbers count as zero.
// @Summary Preview invoice totals
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body request.PreviewRequest true "Form values"
// @Success 200 {object} response.APIResponse
// @Router /invoices/preview [post]
func (h *InvoiceHandler) Preview(c *gin.Context) {
	var req request.PreviewRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := make([]service.PreviewLine, len(req.LineItems))
	for i, l := range req.LineItems {
		lines[i] = service.PreviewLine{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	summary := h.invoiceService.Preview(&service.PreviewInput{
		LineItems: lines,
		TaxRate:   req.TaxRate,
		Payments:  req.Payments,
	})
	response.OK(c, "Preview calculated", summary)
}

// Send marks the invoice sent and emails it to the client
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.invoiceService.SendInvoice(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Invoice sent"
	if !result.Emailed {
		message = "Invoice marked as sent"
	}
	response.OK(c, message, response.SendInvoiceResponse{
		Invoice: response.NewInvoiceResponse(result.Detail),
		Emailed: result.Emailed,
	})
}

// PDF streams the rendered invoice
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	doc, filename, err := h.invoiceService.RenderPDF(c.Request.Context(), scope(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "1" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
