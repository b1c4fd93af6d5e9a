package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/application/service"
	"github.com/sangkips/cleanops-api/internal/domain/entity"
	"github.com/sangkips/cleanops-api/internal/domain/enum"
	"github.com/sangkips/cleanops-api/internal/domain/pricing"
	"github.com/sangkips/cleanops-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// AuthResponse is returned by login, register, refresh and the OAuth callback
type AuthResponse struct {
	User         *entity.User    `json:"user"`
	Tenants      []entity.Tenant `json:"tenants"`
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
}

// NewAuthResponse maps a login result
func NewAuthResponse(out *service.LoginOutput) *AuthResponse {
	tenants := out.Tenants
	if tenants == nil {
		tenants = []entity.Tenant{}
	}
	return &AuthResponse{
		User:         out.User,
		Tenants:      tenants,
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    out.ExpiresIn,
	}
}

// ProfileResponse is the signed-in user with their businesses
type ProfileResponse struct {
	User    *entity.User    `json:"user"`
	Tenants []entity.Tenant `json:"tenants"`
}

// EstimateResponse is an estimate with its derived pricing
type EstimateResponse struct {
	*entity.Estimate
	Pricing pricing.Breakdown `json:"pricing"`
}

// NewEstimateResponse maps an estimate detail
func NewEstimateResponse(d *service.EstimateDetail) *EstimateResponse {
	return &EstimateResponse{Estimate: d.Estimate, Pricing: d.Pricing}
}

// JobResponse is a job with its derived pricing
type JobResponse struct {
	*entity.Job
	Pricing pricing.Breakdown `json:"pricing"`
}

// NewJobResponse maps a job detail
func NewJobResponse(d *service.JobDetail) *JobResponse {
	return &JobResponse{Job: d.Job, Pricing: d.Pricing}
}

// LineItemResponse is one priced line of a document
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      string          `json:"amount"`
	Position    int             `json:"position"`
}

// InvoiceResponse is an invoice with the money picture derived from its lines
// and payments. Stored line totals are ignored.
type InvoiceResponse struct {
	ID        uuid.UUID          `json:"id"`
	Number    string             `json:"number"`
	Status    enum.InvoiceStatus `json:"status"`
	ClientID  uuid.UUID          `json:"client_id"`
	Client    *entity.Client     `json:"client,omitempty"`
	JobID     *uuid.UUID         `json:"job_id,omitempty"`
	IssueDate time.Time          `json:"issue_date"`
	DueDate   *time.Time         `json:"due_date,omitempty"`
	TaxRate   decimal.Decimal    `json:"tax_rate"`
	Notes     *string            `json:"notes,omitempty"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
	Overdue   bool               `json:"overdue"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	LineItems      []LineItemResponse `json:"line_items"`
	PaymentRecords []entity.Payment   `json:"payment_records"`

	pricing.Summary
}

// NewInvoiceResponse maps an invoice detail
func NewInvoiceResponse(d *service.InvoiceDetail) *InvoiceResponse {
	inv := d.Invoice
	lines := make([]LineItemResponse, len(inv.LineItems))
	for i, li := range inv.LineItems {
		lines[i] = LineItemResponse{
			ID:          li.ID,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Amount:      li.PricingLine().Amount().StringFixed(pricing.Places),
			Position:    li.Position,
		}
	}
	payments := inv.Payments
	if payments == nil {
		payments = []entity.Payment{}
	}

	return &InvoiceResponse{
		ID:             inv.ID,
		Number:         inv.Number,
		Status:         inv.Status,
		ClientID:       inv.ClientID,
		Client:         inv.Client,
		JobID:          inv.JobID,
		IssueDate:      inv.IssueDate,
		DueDate:        inv.DueDate,
		TaxRate:        inv.TaxRate,
		Notes:          inv.Notes,
		SentAt:         inv.SentAt,
		Overdue:        d.Overdue,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		LineItems:      lines,
		PaymentRecords: payments,
		Summary:        d.Summary,
	}
}

// NewInvoiceList maps a page of invoice details
func NewInvoiceList(result *pagination.PaginatedResult[*service.InvoiceDetail]) *pagination.PaginatedResult[*InvoiceResponse] {
	return mapPage(result, NewInvoiceResponse)
}

// NewEstimateList maps a page of estimate details
func NewEstimateList(result *pagination.PaginatedResult[*service.EstimateDetail]) *pagination.PaginatedResult[*EstimateResponse] {
	return mapPage(result, NewEstimateResponse)
}

// NewJobList maps a page of job details
func NewJobList(result *pagination.PaginatedResult[*service.JobDetail]) *pagination.PaginatedResult[*JobResponse] {
	return mapPage(result, NewJobResponse)
}

func mapPage[S, D any](result *pagination.PaginatedResult[S], fn func(S) D) *pagination.PaginatedResult[D] {
	items := make([]D, len(result.Items))
	for i, item := range result.Items {
		items[i] = fn(item)
	}
	return pagination.NewPaginatedResult(items, result.Pagination)
}

// SendInvoiceResponse reports the sent invoice and whether the client was emailed
type SendInvoiceResponse struct {
	Invoice *InvoiceResponse `json:"invoice"`
	Emailed bool             `json:"emailed"`
}

// PaymentResponse is a recorded payment and the invoice it settled
type PaymentResponse struct {
	Payment     *entity.Payment  `json:"payment"`
	Invoice     *InvoiceResponse `json:"invoice"`
	Overpayment bool             `json:"overpayment"`
}

// NewPaymentResponse maps a recorded payment
func NewPaymentResponse(out *service.RecordPaymentOutput) *PaymentResponse {
	return &PaymentResponse{
		Payment:     out.Payment,
		Invoice:     NewInvoiceResponse(out.Invoice),
		Overpayment: out.Overpayment,
	}
}

// PaymentListResponse is one page of the payments dashboard
type PaymentListResponse struct {
	Items      []entity.Payment             `json:"items"`
	Pagination *pagination.CursorPagination `json:"pagination"`
	Collected  string                       `json:"collected"`
}

// NewPaymentListResponse maps the payments dashboard
func NewPaymentListResponse(d *service.PaymentDashboard) *PaymentListResponse {
	return &PaymentListResponse{
		Items:      d.Payments.Items,
		Pagination: d.Payments.Pagination,
		Collected:  d.Collected.StringFixed(pricing.Places),
	}
}

// ConvertLeadResponse is the client and property created from a lead
type ConvertLeadResponse struct {
	Lead     *entity.Lead     `json:"lead"`
	Client   *entity.Client   `json:"client"`
	Property *entity.Property `json:"property,omitempty"`
}

// IntakeResponse acknowledges a website form
type IntakeResponse struct {
	Received bool       `json:"received"`
	LeadID   *uuid.UUID `json:"lead_id,omitempty"`
}

// NewIntakeResponse maps an intake result. Dropped submissions look
// identical to accepted ones apart from the missing lead id.
func NewIntakeResponse(r *service.IntakeResult) *IntakeResponse {
	resp := &IntakeResponse{Received: r.Accepted}
	if r.Lead != nil {
		resp.LeadID = &r.Lead.ID
	}
	return resp
}
