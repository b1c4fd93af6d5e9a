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
	"github.com/sangkips/cleanops-api/pkg/pagination"
)

// PaymentHandler handles money received against invoices
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles POST /invoices/:id/payments. A payment larger than the
// balance is stored and reported as an overpayment.
func (h *PaymentHandler) Record(c *gin.Context) {
	invoiceID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	method, err := enum.ParsePaymentMethod(req.Method)
	if err != nil {
		response.Error(c, apperror.Invalid("method", err.Error()))
		return
	}

	out, err := h.paymentService.RecordPayment(c.Request.Context(), scope(c), invoiceID, &service.RecordPaymentInput{
		Amount:    req.Amount,
		Method:    method,
		PaidAt:    req.PaidAt,
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Payment recorded"
	if out.Overpayment {
		message = "Payment recorded; invoice is overpaid"
	}
	response.Created(c, message, response.NewPaymentResponse(out))
}

// ListForInvoice handles GET /invoices/:id/payments
func (h *PaymentHandler) ListForInvoice(c *gin.Context) {
	invoiceID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListInvoicePayments(c.Request.Context(), scope(c), invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payments retrieved", payments)
}

// List handles GET /payments, the cursor-paged payments dashboard
func (h *PaymentHandler) List(c *gin.Context) {
	var params pagination.CursorParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	params.Validate()
	if _, err := params.DecodeCursor(); err != nil {
		response.BadRequest(c, "Invalid cursor")
		return
	}

	var filter repository.PaymentFilter
	if raw := c.Query("method"); raw != "" {
		method, err := enum.ParsePaymentMethod(raw)
		if err != nil {
			response.Error(c, apperror.Invalid("method", err.Error()))
			return
		}
		filter.Method = &method
	}
	var ok bool
	if filter.From, ok = queryTime(c, "from"); !ok {
		return
	}
	if filter.To, ok = queryRangeEnd(c, "to"); !ok {
		return
	}

	dashboard, err := h.paymentService.ListPayments(c.Request.Context(), scope(c), &params, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Payments retrieved", response.NewPaymentListResponse(dashboard))
}

// Delete handles DELETE /payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), scope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
